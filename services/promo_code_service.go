package services

import (
	"context"
	"strings"
	"time"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreatePromoCodeRequest struct {
	Code               string          `json:"code" binding:"required,max=50"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	ExpirationDate     time.Time       `json:"expiration_date" binding:"required"`
	IsActive           *bool           `json:"is_active"`
	UsageLimit         int             `json:"usage_limit" binding:"required,min=1"`
	MinimumOrderAmount decimal.Decimal `json:"minimum_order_amount"`
	Description        string          `json:"description" binding:"max=200"`
}

type UpdatePromoCodeRequest struct {
	Code               *string          `json:"code" binding:"omitempty,min=1,max=50"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount"`
	ExpirationDate     *time.Time       `json:"expiration_date"`
	IsActive           *bool            `json:"is_active"`
	UsageLimit         *int             `json:"usage_limit" binding:"omitempty,min=0"`
	MinimumOrderAmount *decimal.Decimal `json:"minimum_order_amount"`
	Description        *string          `json:"description" binding:"omitempty,max=200"`
}

// PromoCodeService manages discount codes and their redemption counters
type PromoCodeService struct {
	db  *gorm.DB
	log *logrus.Entry
	now func() time.Time
}

func NewPromoCodeService(db *gorm.DB, log *logrus.Logger) *PromoCodeService {
	return &PromoCodeService{
		db:  db,
		log: log.WithField("component", "promo_code_service"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *PromoCodeService) Create(ctx context.Context, req CreatePromoCodeRequest) (*models.PromoCode, error) {
	if req.DiscountAmount.IsNegative() || req.MinimumOrderAmount.IsNegative() {
		return nil, apperr.BusinessRule("Discount and minimum order amounts cannot be negative")
	}
	promo := models.PromoCode{
		Code:               normalizeCode(req.Code),
		DiscountAmount:     req.DiscountAmount,
		ExpirationDate:     req.ExpirationDate.UTC(),
		IsActive:           true,
		UsageLimit:         req.UsageLimit,
		MinimumOrderAmount: req.MinimumOrderAmount,
		Description:        req.Description,
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}
	if err := s.db.WithContext(ctx).Create(&promo).Error; err != nil {
		return nil, apperr.Constraint(err)
	}
	s.log.WithFields(logrus.Fields{"promo_code_id": promo.ID, "code": promo.Code}).Info("promo code created")
	return &promo, nil
}

func (s *PromoCodeService) List(ctx context.Context) ([]models.PromoCode, error) {
	var promos []models.PromoCode
	if err := s.db.WithContext(ctx).Order("id").Find(&promos).Error; err != nil {
		return nil, errors.Wrap(err, "list promo codes")
	}
	return promos, nil
}

// ListActive returns codes that could still be redeemed right now.
func (s *PromoCodeService) ListActive(ctx context.Context) ([]models.PromoCode, error) {
	var promos []models.PromoCode
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND expiration_date > ? AND times_used < usage_limit", true, s.now()).
		Order("id").
		Find(&promos).Error
	if err != nil {
		return nil, errors.Wrap(err, "list active promo codes")
	}
	return promos, nil
}

func (s *PromoCodeService) Get(ctx context.Context, id uint) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := s.db.WithContext(ctx).First(&promo, id).Error; err != nil {
		return nil, apperr.FromRead(err, "Promo code")
	}
	return &promo, nil
}

func (s *PromoCodeService) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	return findPromo(s.db.WithContext(ctx), code)
}

func findPromo(tx *gorm.DB, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := tx.Where("code = ?", normalizeCode(code)).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(models.PromoNotFoundMessage)
		}
		return nil, errors.Wrap(err, "load promo code")
	}
	return &promo, nil
}

// Validate checks a code against an order total without changing anything.
func (s *PromoCodeService) Validate(ctx context.Context, code string, orderTotal decimal.Decimal) (*models.PromoValidation, error) {
	promo, err := findPromo(s.db.WithContext(ctx), code)
	if apperr.IsNotFound(err) {
		return &models.PromoValidation{DiscountAmount: decimal.Zero, Message: models.PromoNotFoundMessage}, nil
	}
	if err != nil {
		return nil, err
	}
	v := promo.Evaluate(orderTotal, s.now())
	return &v, nil
}

// Apply counts one use of the code. The increment is guarded by the usage limit.
func (s *PromoCodeService) Apply(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo *models.PromoCode
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PromoCode{}).
			Where("code = ? AND times_used < usage_limit", normalizeCode(code)).
			UpdateColumn("times_used", gorm.Expr("times_used + 1"))
		if res.Error != nil {
			return apperr.Constraint(res.Error)
		}
		var err error
		if promo, err = findPromo(tx, code); err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return apperr.BusinessRule("Promo code usage limit reached")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"code": promo.Code, "times_used": promo.TimesUsed}).Info("promo code applied")
	return promo, nil
}

// redeemPromo validates a code against orderTotal and counts the use in one guarded update,
// so concurrent redemptions cannot exceed the usage limit.
func redeemPromo(tx *gorm.DB, code string, orderTotal decimal.Decimal, now time.Time) (*models.PromoCode, error) {
	promo, err := findPromo(tx, code)
	if err != nil {
		return nil, err
	}
	if v := promo.Evaluate(orderTotal, now); !v.IsValid {
		return nil, apperr.BusinessRule("%s", v.Message)
	}
	res := tx.Model(&models.PromoCode{}).
		Where("id = ? AND is_active = ? AND expiration_date > ? AND times_used < usage_limit", promo.ID, true, now).
		UpdateColumn("times_used", gorm.Expr("times_used + 1"))
	if res.Error != nil {
		return nil, apperr.Constraint(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.BusinessRule("Promo code usage limit reached")
	}
	promo.TimesUsed++
	return promo, nil
}

func (s *PromoCodeService) Update(ctx context.Context, id uint, req UpdatePromoCodeRequest) (*models.PromoCode, error) {
	updates := map[string]interface{}{}
	if req.Code != nil {
		updates["code"] = normalizeCode(*req.Code)
	}
	if req.DiscountAmount != nil {
		if req.DiscountAmount.IsNegative() {
			return nil, apperr.BusinessRule("Discount amount cannot be negative")
		}
		updates["discount_amount"] = *req.DiscountAmount
	}
	if req.ExpirationDate != nil {
		updates["expiration_date"] = req.ExpirationDate.UTC()
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.UsageLimit != nil {
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.MinimumOrderAmount != nil {
		if req.MinimumOrderAmount.IsNegative() {
			return nil, apperr.BusinessRule("Minimum order amount cannot be negative")
		}
		updates["minimum_order_amount"] = *req.MinimumOrderAmount
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	return s.update(ctx, id, updates)
}

func (s *PromoCodeService) Deactivate(ctx context.Context, id uint) (*models.PromoCode, error) {
	return s.update(ctx, id, map[string]interface{}{"is_active": false})
}

func (s *PromoCodeService) update(ctx context.Context, id uint, updates map[string]interface{}) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&promo, id).Error; err != nil {
			return apperr.FromRead(err, "Promo code")
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&promo).Updates(updates).Error; err != nil {
			return apperr.Constraint(err)
		}
		return tx.First(&promo, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *PromoCodeService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.PromoCode{}, id)
	if res.Error != nil {
		return apperr.Constraint(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Promo code not found")
	}
	return nil
}
