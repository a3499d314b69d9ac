package services

import (
	"context"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateRecipeRequest struct {
	SandwichID uint   `json:"sandwich_id" binding:"required"`
	ResourceID uint   `json:"resource_id" binding:"required"`
	Amount     int    `json:"amount" binding:"required,min=1"`
	Unit       string `json:"unit" binding:"max=20"`
}

type UpdateRecipeRequest struct {
	SandwichID *uint   `json:"sandwich_id" binding:"omitempty,min=1"`
	ResourceID *uint   `json:"resource_id" binding:"omitempty,min=1"`
	Amount     *int    `json:"amount" binding:"omitempty,min=1"`
	Unit       *string `json:"unit" binding:"omitempty,min=1,max=20"`
}

// RecipeService links sandwiches to the resources they consume
type RecipeService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewRecipeService(db *gorm.DB, log *logrus.Logger) *RecipeService {
	return &RecipeService{db: db, log: log.WithField("component", "recipe_service")}
}

func mustExist(tx *gorm.DB, model interface{}, id uint, entity string) error {
	return apperr.FromRead(tx.Select("id").First(model, id).Error, entity)
}

func (s *RecipeService) Create(ctx context.Context, req CreateRecipeRequest) (*models.Recipe, error) {
	recipe := models.Recipe{
		SandwichID: req.SandwichID,
		ResourceID: req.ResourceID,
		Amount:     req.Amount,
		Unit:       req.Unit,
	}
	if recipe.Unit == "" {
		recipe.Unit = "piece"
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Sandwich{}, req.SandwichID, "Sandwich"); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Resource{}, req.ResourceID, "Resource"); err != nil {
			return err
		}
		return apperr.Constraint(tx.Create(&recipe).Error)
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) List(ctx context.Context) ([]models.Recipe, error) {
	return s.find(s.db.WithContext(ctx))
}

func (s *RecipeService) ListBySandwich(ctx context.Context, sandwichID uint) ([]models.Recipe, error) {
	return s.find(s.db.WithContext(ctx).Where("sandwich_id = ?", sandwichID))
}

func (s *RecipeService) ListByResource(ctx context.Context, resourceID uint) ([]models.Recipe, error) {
	return s.find(s.db.WithContext(ctx).Where("resource_id = ?", resourceID))
}

func (s *RecipeService) find(q *gorm.DB) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := q.Preload("Sandwich").Preload("Resource").Order("id").Find(&recipes).Error; err != nil {
		return nil, errors.Wrap(err, "list recipes")
	}
	return recipes, nil
}

func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Preload("Sandwich").Preload("Resource").First(&recipe, id).Error; err != nil {
		return nil, apperr.FromRead(err, "Recipe")
	}
	return &recipe, nil
}

// CheckAvailability reports whether current stock covers quantity portions of the sandwich.
// Nothing is reserved.
func (s *RecipeService) CheckAvailability(ctx context.Context, sandwichID uint, quantity int) (*models.Availability, error) {
	if quantity < 1 {
		return nil, apperr.BusinessRule("Quantity must be at least 1")
	}
	db := s.db.WithContext(ctx)
	if err := mustExist(db, &models.Sandwich{}, sandwichID, "Sandwich"); err != nil {
		return nil, err
	}
	return checkAvailability(db, sandwichID, quantity)
}

// Details lists the ingredients of a sandwich with the stock on hand.
func (s *RecipeService) Details(ctx context.Context, sandwichID uint) ([]models.RecipeDetail, error) {
	details, err := recipeDetails(s.db.WithContext(ctx), sandwichID)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, apperr.NotFound("No recipe found for this sandwich!")
	}
	return details, nil
}

func recipeDetails(db *gorm.DB, sandwichID uint) ([]models.RecipeDetail, error) {
	var recipes []models.Recipe
	if err := db.Preload("Resource").Where("sandwich_id = ?", sandwichID).Order("id").Find(&recipes).Error; err != nil {
		return nil, errors.Wrap(err, "load recipe")
	}
	details := make([]models.RecipeDetail, 0, len(recipes))
	for _, r := range recipes {
		d := models.RecipeDetail{RecipeID: r.ID, Amount: r.Amount, Unit: r.Unit, IngredientName: "Unknown"}
		if r.Resource != nil {
			d.IngredientName = r.Resource.Item
			d.AvailableStock = r.Resource.Amount
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *RecipeService) Update(ctx context.Context, id uint, req UpdateRecipeRequest) (*models.Recipe, error) {
	updates := map[string]interface{}{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return apperr.FromRead(err, "Recipe")
		}
		if req.SandwichID != nil {
			if err := mustExist(tx, &models.Sandwich{}, *req.SandwichID, "Sandwich"); err != nil {
				return err
			}
			updates["sandwich_id"] = *req.SandwichID
		}
		if req.ResourceID != nil {
			if err := mustExist(tx, &models.Resource{}, *req.ResourceID, "Resource"); err != nil {
				return err
			}
			updates["resource_id"] = *req.ResourceID
		}
		if req.Amount != nil {
			updates["amount"] = *req.Amount
		}
		if req.Unit != nil {
			updates["unit"] = *req.Unit
		}
		if len(updates) == 0 {
			return nil
		}
		return apperr.Constraint(tx.Model(&recipe).Updates(updates).Error)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *RecipeService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Recipe{}, id)
	if res.Error != nil {
		return apperr.Constraint(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Recipe not found")
	}
	return nil
}
