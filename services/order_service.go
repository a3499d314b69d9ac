package services

import (
	"context"
	"strings"
	"time"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"
	"sandwich-shop-api/statemachine"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const trackingNumberAttempts = 5

var errPromoAlreadyApplied = apperr.BusinessRule("A promo code has already been applied to this order")

type CreateOrderRequest struct {
	CustomerName string           `json:"customer_name" binding:"required,max=100"`
	Phone        string           `json:"phone" binding:"required,max=15"`
	Address      string           `json:"address" binding:"max=500"`
	OrderType    models.OrderType `json:"order_type" binding:"required,oneof=takeout delivery"`
	Description  string           `json:"description" binding:"max=300"`
	PromoCodeID  *uint            `json:"promo_code_id"`
}

type UpdateOrderRequest struct {
	CustomerName  *string               `json:"customer_name" binding:"omitempty,min=1,max=100"`
	Phone         *string               `json:"phone" binding:"omitempty,min=1,max=15"`
	Address       *string               `json:"address" binding:"omitempty,max=500"`
	OrderType     *models.OrderType     `json:"order_type"`
	Description   *string               `json:"description" binding:"omitempty,max=300"`
	Status        *models.OrderStatus   `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
}

type OrderFilter struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
}

// OrderService runs the order lifecycle
type OrderService struct {
	db  *gorm.DB
	log *logrus.Entry
	now func() time.Time
}

func NewOrderService(db *gorm.DB, log *logrus.Logger) *OrderService {
	return &OrderService{
		db:  db,
		log: log.WithField("component", "order_service"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if !req.OrderType.Valid() {
		return nil, apperr.BusinessRule("Invalid order type. Must be: takeout or delivery")
	}
	if req.OrderType == models.OrderDelivery && strings.TrimSpace(req.Address) == "" {
		return nil, apperr.BusinessRule("Address is required for delivery orders")
	}

	order := models.Order{
		CustomerName:   strings.TrimSpace(req.CustomerName),
		Phone:          strings.TrimSpace(req.Phone),
		Address:        req.Address,
		OrderType:      req.OrderType,
		Status:         models.StatusReceived,
		PaymentStatus:  models.PaymentPending,
		SubtotalAmount: decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
		PromoCodeID:    req.PromoCodeID,
		Description:    req.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.PromoCodeID != nil {
			if err := mustExist(tx, &models.PromoCode{}, *req.PromoCodeID, "Promo code"); err != nil {
				return err
			}
		}
		tn, err := uniqueTrackingNumber(tx)
		if err != nil {
			return err
		}
		order.TrackingNumber = tn
		if err := tx.Create(&order).Error; err != nil {
			return apperr.Constraint(err)
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:  order.ID,
			ToStatus: models.StatusReceived,
			Note:     "order placed",
		}).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"order_id": order.ID, "tracking_number": order.TrackingNumber}).Info("order created")
	return &order, nil
}

func uniqueTrackingNumber(tx *gorm.DB) (string, error) {
	for i := 0; i < trackingNumberAttempts; i++ {
		tn := models.NewTrackingNumber()
		var count int64
		if err := tx.Model(&models.Order{}).Where("tracking_number = ?", tn).Count(&count).Error; err != nil {
			return "", errors.Wrap(err, "check tracking number")
		}
		if count == 0 {
			return tn, nil
		}
	}
	return "", errors.New("could not allocate a unique tracking number")
}

func (s *OrderService) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	var orders []models.Order
	if err := q.Order("order_date DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("OrderDetails", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("OrderDetails.Sandwich").
		Preload("PromoCode").
		First(&order, id).Error
	if err != nil {
		return nil, apperr.FromRead(err, "Order")
	}
	return &order, nil
}

// GetByTracking looks an order up by its exact tracking number.
func (s *OrderService) GetByTracking(ctx context.Context, trackingNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("OrderDetails", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("OrderDetails.Sandwich").
		Where("tracking_number = ?", trackingNumber).
		First(&order).Error
	if err != nil {
		return nil, apperr.FromRead(err, "Order")
	}
	return &order, nil
}

// Update edits an order. A status change must follow the transition table and is recorded
// in the status history; resubmitting the current status is not a change.
func (s *OrderService) Update(ctx context.Context, id uint, req UpdateOrderRequest, actor uint) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return apperr.FromRead(err, "Order")
		}

		updates := map[string]interface{}{}
		if req.CustomerName != nil {
			updates["customer_name"] = strings.TrimSpace(*req.CustomerName)
		}
		if req.Phone != nil {
			updates["phone"] = strings.TrimSpace(*req.Phone)
		}
		if req.Address != nil {
			updates["address"] = *req.Address
			order.Address = *req.Address
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.OrderType != nil {
			if !req.OrderType.Valid() {
				return apperr.BusinessRule("Invalid order type. Must be: takeout or delivery")
			}
			updates["order_type"] = *req.OrderType
			order.OrderType = *req.OrderType
		}
		if order.OrderType == models.OrderDelivery && strings.TrimSpace(order.Address) == "" {
			return apperr.BusinessRule("Address is required for delivery orders")
		}
		if req.PaymentStatus != nil {
			if !req.PaymentStatus.Valid() {
				return apperr.BusinessRule("Invalid payment status. Must be one of: pending, paid, failed")
			}
			updates["payment_status"] = *req.PaymentStatus
		}
		if req.Status != nil && *req.Status != order.Status {
			if err := transitionOrder(tx, &order, *req.Status, actor, "updated with order"); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return apperr.Constraint(tx.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateStatus moves an order one step along the lifecycle.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus, actor uint, note string) (*models.Order, models.OrderStatus, error) {
	var previous models.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return apperr.FromRead(err, "Order")
		}
		previous = order.Status
		return transitionOrder(tx, &order, status, actor, note)
	})
	if err != nil {
		return nil, "", err
	}
	s.log.WithFields(logrus.Fields{"order_id": id, "from": previous, "to": status, "actor": actor}).Info("order status changed")
	order, err := s.Get(ctx, id)
	return order, previous, err
}

func transitionOrder(tx *gorm.DB, order *models.Order, to models.OrderStatus, actor uint, note string) error {
	if err := statemachine.CanTransition(order.Status, to); err != nil {
		return err
	}
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(map[string]interface{}{"status": to})
	if res.Error != nil {
		return apperr.Constraint(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.BusinessRule("Order status changed concurrently; reload and retry")
	}
	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   to,
		ChangedBy:  actor,
		Note:       note,
	}
	if err := tx.Create(&history).Error; err != nil {
		return apperr.Constraint(err)
	}
	order.Status = to
	return nil
}

// UpdateTotal overwrites the total amount.
func (s *OrderService) UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) (*models.Order, error) {
	if total.IsNegative() {
		return nil, apperr.BusinessRule("Total amount cannot be negative")
	}
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("total_amount", total)
	if res.Error != nil {
		return nil, apperr.Constraint(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Order not found")
	}
	return s.Get(ctx, id)
}

// ApplyPromo redeems a code against the order's subtotal and records the discount.
func (s *OrderService) ApplyPromo(ctx context.Context, id uint, code string) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := editableOrder(tx, id)
		if err != nil {
			return err
		}
		if order.PromoRedeemed || order.DiscountAmount.IsPositive() {
			return errPromoAlreadyApplied
		}
		promo, err := redeemPromo(tx, code, order.SubtotalAmount, s.now())
		if err != nil {
			return err
		}
		res := tx.Model(&models.Order{}).Where("id = ? AND promo_redeemed = ?", id, false).Updates(map[string]interface{}{
			"promo_code_id":   promo.ID,
			"promo_redeemed":  true,
			"discount_amount": promo.DiscountAmount,
		})
		if res.Error != nil {
			return apperr.Constraint(res.Error)
		}
		if res.RowsAffected == 0 {
			return errPromoAlreadyApplied
		}
		return recomputeOrderTotals(tx, id)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"order_id": id, "code": normalizeCode(code)}).Info("promo code redeemed")
	return s.Get(ctx, id)
}

// editableOrder loads an order that still accepts item and discount changes.
func editableOrder(tx *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, id).Error; err != nil {
		return nil, apperr.FromRead(err, "Order")
	}
	if order.Status != models.StatusReceived {
		return nil, apperr.BusinessRule("Order %s is already %s and can no longer be changed", order.TrackingNumber, order.Status)
	}
	return &order, nil
}

// recomputeOrderTotals sets subtotal to the sum of the line items and total to subtotal less discount.
// A redeemed promo code keeps its minimum: a subtotal below it fails the change.
func recomputeOrderTotals(tx *gorm.DB, orderID uint) error {
	var details []models.OrderDetail
	if err := tx.Where("order_id = ?", orderID).Find(&details).Error; err != nil {
		return errors.Wrap(err, "load order details")
	}
	subtotal := decimal.Zero
	for _, d := range details {
		subtotal = subtotal.Add(d.Subtotal)
	}
	var order models.Order
	if err := tx.Select("id", "discount_amount", "promo_code_id", "promo_redeemed").First(&order, orderID).Error; err != nil {
		return apperr.FromRead(err, "Order")
	}
	if order.PromoRedeemed && order.PromoCodeID != nil {
		var promo models.PromoCode
		err := tx.Select("id", "code", "minimum_order_amount").First(&promo, *order.PromoCodeID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return errors.Wrap(err, "load promo code")
		case subtotal.LessThan(promo.MinimumOrderAmount):
			return apperr.BusinessRule("Promo code %s requires a minimum order of $%s; the order subtotal would drop to $%s",
				promo.Code, promo.MinimumOrderAmount.StringFixed(2), subtotal.StringFixed(2))
		}
	}
	err := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"subtotal_amount": subtotal,
		"total_amount":    models.Total(subtotal, order.DiscountAmount),
	}).Error
	return apperr.Constraint(err)
}

// ByDateRange returns orders placed within [start, end] and their revenue.
func (s *OrderService) ByDateRange(ctx context.Context, start, end time.Time) (*models.RevenueReport, error) {
	if end.Before(start) {
		return nil, apperr.BusinessRule("End date must not be before start date")
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("order_date >= ? AND order_date <= ?", start.UTC(), end.UTC()).
		Order("order_date").Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "orders by date range")
	}
	report := &models.RevenueReport{
		StartDate:    start,
		EndDate:      end,
		OrderCount:   len(orders),
		TotalRevenue: decimal.Zero,
		Orders:       orders,
	}
	for _, o := range orders {
		report.TotalRevenue = report.TotalRevenue.Add(o.TotalAmount)
	}
	return report, nil
}

func (s *OrderService) History(ctx context.Context, id uint) ([]models.OrderStatusHistory, error) {
	db := s.db.WithContext(ctx)
	if err := mustExist(db, &models.Order{}, id, "Order"); err != nil {
		return nil, err
	}
	var history []models.OrderStatusHistory
	if err := db.Where("order_id = ?", id).Order("created_at").Order("id").Find(&history).Error; err != nil {
		return nil, errors.Wrap(err, "order history")
	}
	return history, nil
}

// Delete removes the order with its line items, reviews and history. Stock consumed by an
// order that never left "received" is returned to inventory.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return apperr.FromRead(err, "Order")
		}
		var details []models.OrderDetail
		if err := tx.Where("order_id = ?", id).Find(&details).Error; err != nil {
			return errors.Wrap(err, "load order details")
		}
		detailIDs := make([]uint, 0, len(details))
		for _, d := range details {
			if order.Status == models.StatusReceived {
				if err := returnConsumption(tx, d.ID, d.Quantity); err != nil {
					return err
				}
			}
			detailIDs = append(detailIDs, d.ID)
		}
		if len(detailIDs) > 0 {
			if err := tx.Where("order_detail_id IN ?", detailIDs).Delete(&models.OrderItemConsumption{}).Error; err != nil {
				return apperr.Constraint(err)
			}
		}
		for _, model := range []interface{}{&models.Review{}, &models.OrderDetail{}, &models.OrderStatusHistory{}} {
			if err := tx.Where("order_id = ?", id).Delete(model).Error; err != nil {
				return apperr.Constraint(err)
			}
		}
		return apperr.Constraint(tx.Delete(&order).Error)
	})
	if err != nil {
		return err
	}
	s.log.WithField("order_id", id).Info("order deleted")
	return nil
}
