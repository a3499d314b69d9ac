package services

import (
	"context"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AddOrderItemRequest struct {
	SandwichID          uint   `json:"sandwich_id" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,min=1"`
	SpecialInstructions string `json:"special_instructions" binding:"max=300"`
}

type UpdateOrderItemRequest struct {
	Quantity            *int    `json:"quantity" binding:"omitempty,min=1"`
	SpecialInstructions *string `json:"special_instructions" binding:"omitempty,max=300"`
}

// OrderDetailService manages order line items and the stock they reserve
type OrderDetailService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewOrderDetailService(db *gorm.DB, log *logrus.Logger) *OrderDetailService {
	return &OrderDetailService{db: db, log: log.WithField("component", "order_detail_service")}
}

// Add puts a sandwich on an order. Availability, stock consumption, the price snapshot and the
// order totals happen in one transaction; any failure leaves stock and the order untouched.
func (s *OrderDetailService) Add(ctx context.Context, orderID uint, req AddOrderItemRequest) (*models.OrderDetail, error) {
	if req.Quantity < 1 {
		return nil, apperr.BusinessRule("Quantity must be at least 1")
	}
	var (
		detail   models.OrderDetail
		warnings []string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := editableOrder(tx, orderID); err != nil {
			return err
		}
		var sandwich models.Sandwich
		if err := tx.First(&sandwich, req.SandwichID).Error; err != nil {
			return apperr.FromRead(err, "Sandwich")
		}
		if !sandwich.IsAvailable {
			return apperr.BusinessRule("Sandwich '%s' is not available", sandwich.SandwichName)
		}

		report, err := checkAvailability(tx, sandwich.ID, req.Quantity)
		if err != nil {
			return err
		}
		if !report.CanFulfill {
			return describeShortage(sandwich.SandwichName, report)
		}
		detail = models.OrderDetail{
			OrderID:             orderID,
			SandwichID:          sandwich.ID,
			Quantity:            req.Quantity,
			UnitPrice:           sandwich.Price,
			Subtotal:            sandwich.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
			SpecialInstructions: req.SpecialInstructions,
		}
		if err := tx.Create(&detail).Error; err != nil {
			return apperr.Constraint(err)
		}
		if warnings, err = consumeRecipe(tx, &detail, req.Quantity); err != nil {
			return err
		}
		detail.Sandwich = &sandwich
		return recomputeOrderTotals(tx, orderID)
	})
	if err != nil {
		return nil, err
	}
	s.logWarnings(warnings)
	s.log.WithFields(logrus.Fields{"order_id": orderID, "sandwich_id": req.SandwichID, "quantity": req.Quantity}).Info("order item added")
	return &detail, nil
}

// Update changes the quantity or instructions of a line item; stock follows the quantity delta.
func (s *OrderDetailService) Update(ctx context.Context, id uint, req UpdateOrderItemRequest) (*models.OrderDetail, error) {
	var warnings []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var detail models.OrderDetail
		if err := tx.Preload("Sandwich").First(&detail, id).Error; err != nil {
			return apperr.FromRead(err, "Order item")
		}
		if _, err := editableOrder(tx, detail.OrderID); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.SpecialInstructions != nil {
			updates["special_instructions"] = *req.SpecialInstructions
		}
		if req.Quantity != nil && *req.Quantity != detail.Quantity {
			if *req.Quantity < 1 {
				return apperr.BusinessRule("Quantity must be at least 1")
			}
			delta := *req.Quantity - detail.Quantity
			if delta > 0 {
				report, err := checkAvailability(tx, detail.SandwichID, delta)
				if err != nil {
					return err
				}
				if !report.CanFulfill {
					return describeShortage(sandwichName(&detail), report)
				}
				if warnings, err = consumeRecipe(tx, &detail, delta); err != nil {
					return err
				}
			} else if err := returnConsumption(tx, detail.ID, -delta); err != nil {
				return err
			}
			updates["quantity"] = *req.Quantity
			updates["subtotal"] = detail.UnitPrice.Mul(decimal.NewFromInt(int64(*req.Quantity)))
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.OrderDetail{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return apperr.Constraint(err)
		}
		return recomputeOrderTotals(tx, detail.OrderID)
	})
	if err != nil {
		return nil, err
	}
	s.logWarnings(warnings)
	return s.Get(ctx, id)
}

// Remove deletes a line item and returns its ingredients to stock.
func (s *OrderDetailService) Remove(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var detail models.OrderDetail
		if err := tx.First(&detail, id).Error; err != nil {
			return apperr.FromRead(err, "Order item")
		}
		if _, err := editableOrder(tx, detail.OrderID); err != nil {
			return err
		}
		if err := returnConsumption(tx, detail.ID, detail.Quantity); err != nil {
			return err
		}
		if err := tx.Where("order_detail_id = ?", id).Delete(&models.OrderItemConsumption{}).Error; err != nil {
			return apperr.Constraint(err)
		}
		if err := tx.Delete(&detail).Error; err != nil {
			return apperr.Constraint(err)
		}
		return recomputeOrderTotals(tx, detail.OrderID)
	})
	if err != nil {
		return err
	}
	s.log.WithField("order_item_id", id).Info("order item removed")
	return nil
}

func (s *OrderDetailService) Get(ctx context.Context, id uint) (*models.OrderDetail, error) {
	var detail models.OrderDetail
	if err := s.db.WithContext(ctx).Preload("Sandwich").First(&detail, id).Error; err != nil {
		return nil, apperr.FromRead(err, "Order item")
	}
	return &detail, nil
}

// GetInOrder returns a line item only when it belongs to the given order.
func (s *OrderDetailService) GetInOrder(ctx context.Context, orderID, id uint) (*models.OrderDetail, error) {
	var detail models.OrderDetail
	err := s.db.WithContext(ctx).Preload("Sandwich").Where("order_id = ?", orderID).First(&detail, id).Error
	if err != nil {
		return nil, apperr.FromRead(err, "Order item")
	}
	return &detail, nil
}

func (s *OrderDetailService) ListByOrder(ctx context.Context, orderID uint) ([]models.OrderDetail, error) {
	db := s.db.WithContext(ctx)
	if err := mustExist(db, &models.Order{}, orderID, "Order"); err != nil {
		return nil, err
	}
	var details []models.OrderDetail
	if err := db.Preload("Sandwich").Where("order_id = ?", orderID).Order("id").Find(&details).Error; err != nil {
		return nil, errors.Wrap(err, "list order items")
	}
	return details, nil
}

func (s *OrderDetailService) logWarnings(warnings []string) {
	for _, w := range warnings {
		s.log.Warn(w)
	}
}

func sandwichName(d *models.OrderDetail) string {
	if d.Sandwich == nil {
		return "sandwich"
	}
	return d.Sandwich.SandwichName
}
