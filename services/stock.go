package services

import (
	"fmt"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// consumeStock removes n units in a single guarded update so stock never goes negative.
// A failed guard is reported as NotFound or as an insufficient stock rule violation.
func consumeStock(tx *gorm.DB, resourceID uint, n int) (*models.Resource, error) {
	if n < 0 {
		return nil, apperr.BusinessRule("Amount used cannot be negative")
	}
	res := tx.Model(&models.Resource{}).
		Where("id = ? AND amount >= ?", resourceID, n).
		UpdateColumn("amount", gorm.Expr("amount - ?", n))
	if res.Error != nil {
		return nil, apperr.Constraint(res.Error)
	}

	var resource models.Resource
	if err := tx.First(&resource, resourceID).Error; err != nil {
		return nil, apperr.FromRead(err, "Resource")
	}
	if res.RowsAffected == 0 && n > 0 {
		return nil, apperr.BusinessRule("Insufficient stock! Available: %d, Required: %d", resource.Amount, n)
	}
	return &resource, nil
}

func restockStock(tx *gorm.DB, resourceID uint, n int) (*models.Resource, error) {
	if n < 0 {
		return nil, apperr.BusinessRule("Amount added cannot be negative")
	}
	res := tx.Model(&models.Resource{}).
		Where("id = ?", resourceID).
		UpdateColumn("amount", gorm.Expr("amount + ?", n))
	if res.Error != nil {
		return nil, apperr.Constraint(res.Error)
	}

	var resource models.Resource
	if err := tx.First(&resource, resourceID).Error; err != nil {
		return nil, apperr.FromRead(err, "Resource")
	}
	return &resource, nil
}

func lowStockWarning(r *models.Resource) string {
	if !r.IsLow() {
		return ""
	}
	return fmt.Sprintf("LOW STOCK ALERT: %s is now at %d %s (minimum: %d)", r.Item, r.Amount, r.Unit, r.MinimumStock)
}

// checkAvailability reads the recipe of a sandwich and reports every resource that cannot
// cover quantity portions. Resources that no longer exist count as "Unknown" with nothing on hand.
func checkAvailability(tx *gorm.DB, sandwichID uint, quantity int) (*models.Availability, error) {
	var recipes []models.Recipe
	if err := tx.Preload("Resource").Where("sandwich_id = ?", sandwichID).Order("id").Find(&recipes).Error; err != nil {
		return nil, apperr.FromRead(err, "Recipe")
	}

	report := &models.Availability{
		SandwichID:              sandwichID,
		Quantity:                quantity,
		CanFulfill:              true,
		InsufficientIngredients: []models.MissingIngredient{},
	}
	for _, r := range recipes {
		needed := r.Amount * quantity
		if r.Resource == nil {
			report.InsufficientIngredients = append(report.InsufficientIngredients, models.MissingIngredient{
				Ingredient: "Unknown",
				Needed:     needed,
				Available:  0,
				Unit:       r.Unit,
			})
			continue
		}
		if r.Resource.Amount < needed {
			report.InsufficientIngredients = append(report.InsufficientIngredients, models.MissingIngredient{
				Ingredient: r.Resource.Item,
				Needed:     needed,
				Available:  r.Resource.Amount,
				Unit:       r.Unit,
			})
		}
	}
	report.CanFulfill = len(report.InsufficientIngredients) == 0
	return report, nil
}

// consumeRecipe takes portions of every recipe resource for a line item, records what was
// taken as a new batch, and returns any low stock warnings.
func consumeRecipe(tx *gorm.DB, detail *models.OrderDetail, portions int) ([]string, error) {
	var recipes []models.Recipe
	if err := tx.Where("sandwich_id = ?", detail.SandwichID).Order("id").Find(&recipes).Error; err != nil {
		return nil, apperr.FromRead(err, "Recipe")
	}
	var batch int
	err := tx.Model(&models.OrderItemConsumption{}).
		Where("order_detail_id = ?", detail.ID).
		Select("COALESCE(MAX(batch), 0)").Scan(&batch).Error
	if err != nil {
		return nil, errors.Wrap(err, "read consumption batch")
	}
	batch++

	var warnings []string
	for _, r := range recipes {
		resource, err := consumeStock(tx, r.ResourceID, r.Amount*portions)
		if err != nil {
			return nil, err
		}
		if w := lowStockWarning(resource); w != "" {
			warnings = append(warnings, w)
		}
		row := models.OrderItemConsumption{
			OrderDetailID: detail.ID,
			Batch:         batch,
			ResourceID:    r.ResourceID,
			PerPortion:    r.Amount,
			Portions:      portions,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, apperr.Constraint(err)
		}
	}
	return warnings, nil
}

// returnConsumption gives back the stock recorded for the most recent portions of a line item.
// Recipe edits made after the item was added do not change what is returned.
func returnConsumption(tx *gorm.DB, detailID uint, portions int) error {
	var rows []models.OrderItemConsumption
	err := tx.Where("order_detail_id = ?", detailID).Order("batch DESC").Order("id").Find(&rows).Error
	if err != nil {
		return errors.Wrap(err, "load consumption")
	}

	remaining := portions
	for i := 0; i < len(rows) && remaining > 0; {
		batch := rows[i].Batch
		take := remaining
		if rows[i].Portions < take {
			take = rows[i].Portions
		}
		for ; i < len(rows) && rows[i].Batch == batch; i++ {
			if err := giveBack(tx, &rows[i], take); err != nil {
				return err
			}
		}
		remaining -= take
	}
	return nil
}

func giveBack(tx *gorm.DB, row *models.OrderItemConsumption, portions int) error {
	// A resource deleted since the item was added has nothing to return to.
	if _, err := restockStock(tx, row.ResourceID, row.PerPortion*portions); err != nil && !apperr.IsNotFound(err) {
		return err
	}
	if row.Portions == portions {
		return apperr.Constraint(tx.Delete(row).Error)
	}
	return apperr.Constraint(tx.Model(row).UpdateColumn("portions", row.Portions-portions).Error)
}

func describeShortage(name string, report *models.Availability) error {
	msg := fmt.Sprintf("Insufficient ingredients for %s:", name)
	for i, m := range report.InsufficientIngredients {
		if i > 0 {
			msg += ","
		}
		msg += fmt.Sprintf(" %s (need %d %s, have %d)", m.Ingredient, m.Needed, m.Unit, m.Available)
	}
	return apperr.BusinessRule("%s", msg)
}
