package services

import (
	"context"
	"fmt"
	"strings"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultMinimumStock = 10

type CreateResourceRequest struct {
	Item         string           `json:"item" binding:"required,max=100"`
	Amount       int              `json:"amount" binding:"min=0"`
	Unit         string           `json:"unit" binding:"max=20"`
	MinimumStock *int             `json:"minimum_stock" binding:"omitempty,min=0"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit"`
}

type UpdateResourceRequest struct {
	Item         *string          `json:"item" binding:"omitempty,min=1,max=100"`
	Amount       *int             `json:"amount" binding:"omitempty,min=0"`
	Unit         *string          `json:"unit" binding:"omitempty,min=1,max=20"`
	MinimumStock *int             `json:"minimum_stock" binding:"omitempty,min=0"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit"`
}

// ResourceService manages the ingredient ledger
type ResourceService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewResourceService(db *gorm.DB, log *logrus.Logger) *ResourceService {
	return &ResourceService{db: db, log: log.WithField("component", "resource_service")}
}

func (s *ResourceService) Create(ctx context.Context, req CreateResourceRequest) (*models.Resource, error) {
	if req.CostPerUnit != nil && req.CostPerUnit.IsNegative() {
		return nil, apperr.BusinessRule("Cost per unit cannot be negative")
	}
	resource := models.Resource{
		Item:         strings.TrimSpace(req.Item),
		Amount:       req.Amount,
		Unit:         req.Unit,
		MinimumStock: defaultMinimumStock,
		CostPerUnit:  req.CostPerUnit,
	}
	if resource.Unit == "" {
		resource.Unit = "piece"
	}
	if req.MinimumStock != nil {
		resource.MinimumStock = *req.MinimumStock
	}
	if err := s.db.WithContext(ctx).Create(&resource).Error; err != nil {
		s.log.WithError(err).WithField("item", resource.Item).Warn("create resource failed")
		return nil, apperr.Constraint(err)
	}
	s.log.WithFields(logrus.Fields{"resource_id": resource.ID, "item": resource.Item}).Info("resource created")
	return &resource, nil
}

func (s *ResourceService) List(ctx context.Context) ([]models.Resource, error) {
	var resources []models.Resource
	if err := s.db.WithContext(ctx).Order("id").Find(&resources).Error; err != nil {
		return nil, errors.Wrap(err, "list resources")
	}
	return resources, nil
}

func (s *ResourceService) Get(ctx context.Context, id uint) (*models.Resource, error) {
	var resource models.Resource
	if err := s.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return nil, apperr.FromRead(err, "Resource")
	}
	return &resource, nil
}

// SearchByName matches a case-insensitive substring of the item name.
func (s *ResourceService) SearchByName(ctx context.Context, q string) ([]models.Resource, error) {
	var resources []models.Resource
	err := s.db.WithContext(ctx).
		Where("LOWER(item) LIKE ?", "%"+strings.ToLower(q)+"%").
		Order("item").
		Find(&resources).Error
	if err != nil {
		return nil, errors.Wrap(err, "search resources")
	}
	return resources, nil
}

// LowStock lists every resource at or below its minimum, most depleted first.
func (s *ResourceService) LowStock(ctx context.Context) ([]models.LowStockAlert, error) {
	var resources []models.Resource
	err := s.db.WithContext(ctx).
		Where("amount <= minimum_stock").
		Order("amount").Order("id").
		Find(&resources).Error
	if err != nil {
		return nil, errors.Wrap(err, "list low stock")
	}

	alerts := make([]models.LowStockAlert, 0, len(resources))
	for i := range resources {
		r := &resources[i]
		alerts = append(alerts, models.LowStockAlert{
			ResourceID:   r.ID,
			Item:         r.Item,
			CurrentStock: r.Amount,
			MinimumStock: r.MinimumStock,
			Unit:         r.Unit,
			Shortage:     r.MinimumStock - r.Amount,
			AlertLevel:   r.AlertLevel(),
		})
	}
	return alerts, nil
}

func (s *ResourceService) OutOfStock(ctx context.Context) ([]models.Resource, error) {
	var resources []models.Resource
	if err := s.db.WithContext(ctx).Where("amount <= 0").Order("id").Find(&resources).Error; err != nil {
		return nil, errors.Wrap(err, "list out of stock")
	}
	return resources, nil
}

func (s *ResourceService) CheckSufficient(ctx context.Context, id uint, required int) (*models.StockCheck, error) {
	resource, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.StockCheck{
		ResourceID: resource.ID,
		Item:       resource.Item,
		Available:  resource.Amount,
		Required:   required,
		Sufficient: resource.Amount >= required,
		Unit:       resource.Unit,
	}, nil
}

// UpdateStock overwrites the stock level.
func (s *ResourceService) UpdateStock(ctx context.Context, id uint, newAmount int) (*models.StockUpdate, error) {
	if newAmount < 0 {
		return nil, apperr.BusinessRule("Stock amount cannot be negative")
	}
	var resource models.Resource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Resource{}).Where("id = ?", id).UpdateColumn("amount", newAmount)
		if res.Error != nil {
			return apperr.Constraint(res.Error)
		}
		return apperr.FromRead(tx.First(&resource, id).Error, "Resource")
	})
	if err != nil {
		return nil, err
	}

	result := &models.StockUpdate{Resource: resource}
	if resource.IsLow() {
		result.Warning = fmt.Sprintf("Stock level for %s is now below minimum (%d)", resource.Item, resource.MinimumStock)
		s.log.WithFields(logrus.Fields{"resource_id": id, "amount": newAmount}).Warn(result.Warning)
	}
	return result, nil
}

// Consume removes stock atomically and fails without side effects when stock is short.
func (s *ResourceService) Consume(ctx context.Context, id uint, amountUsed int) (*models.StockConsumption, error) {
	var resource *models.Resource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		resource, err = consumeStock(tx, id, amountUsed)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &models.StockConsumption{
		Resource:       *resource,
		AmountConsumed: amountUsed,
		RemainingStock: resource.Amount,
		Warning:        lowStockWarning(resource),
	}
	if result.Warning != "" {
		s.log.WithField("resource_id", id).Warn(result.Warning)
	}
	return result, nil
}

func (s *ResourceService) Restock(ctx context.Context, id uint, amountAdded int) (*models.StockRestock, error) {
	var resource *models.Resource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		resource, err = restockStock(tx, id, amountAdded)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"resource_id": id, "added": amountAdded, "amount": resource.Amount}).Info("resource restocked")
	return &models.StockRestock{
		Resource:      *resource,
		AmountAdded:   amountAdded,
		NewStockLevel: resource.Amount,
	}, nil
}

// Summary totals the inventory; resources without a unit cost add nothing to the value.
func (s *ResourceService) Summary(ctx context.Context) (*models.InventorySummary, error) {
	resources, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	summary := &models.InventorySummary{TotalItems: len(resources), TotalInventoryValue: decimal.Zero}
	for i := range resources {
		r := &resources[i]
		if r.IsLow() {
			summary.LowStockCount++
		}
		if r.Amount <= 0 {
			summary.OutOfStockCount++
		}
		if r.CostPerUnit != nil {
			summary.TotalInventoryValue = summary.TotalInventoryValue.Add(r.CostPerUnit.Mul(decimal.NewFromInt(int64(r.Amount))))
		}
	}
	return summary, nil
}

func (s *ResourceService) Update(ctx context.Context, id uint, req UpdateResourceRequest) (*models.Resource, error) {
	updates := map[string]interface{}{}
	if req.Item != nil {
		updates["item"] = strings.TrimSpace(*req.Item)
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.MinimumStock != nil {
		updates["minimum_stock"] = *req.MinimumStock
	}
	if req.CostPerUnit != nil {
		if req.CostPerUnit.IsNegative() {
			return nil, apperr.BusinessRule("Cost per unit cannot be negative")
		}
		updates["cost_per_unit"] = *req.CostPerUnit
	}

	var resource models.Resource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&resource, id).Error; err != nil {
			return apperr.FromRead(err, "Resource")
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&resource).Updates(updates).Error; err != nil {
			return apperr.Constraint(err)
		}
		return tx.First(&resource, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// Delete removes a resource; recipes that still reference it make the store refuse.
func (s *ResourceService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Resource{}, id)
	if res.Error != nil {
		return apperr.Constraint(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Resource not found")
	}
	s.log.WithField("resource_id", id).Info("resource deleted")
	return nil
}
