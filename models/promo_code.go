package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromoCode struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	Code               string          `json:"code" gorm:"uniqueIndex;size:50;not null"`
	DiscountAmount     decimal.Decimal `json:"discount_amount" gorm:"type:decimal(6,2);not null"`
	ExpirationDate     time.Time       `json:"expiration_date" gorm:"not null"`
	IsActive           bool            `json:"is_active" gorm:"not null"`
	UsageLimit         int             `json:"usage_limit" gorm:"not null"`
	TimesUsed          int             `json:"times_used" gorm:"not null;default:0"`
	MinimumOrderAmount decimal.Decimal `json:"minimum_order_amount" gorm:"type:decimal(8,2);not null"`
	Description        string          `json:"description" gorm:"size:200"`
	CreatedDate        time.Time       `json:"created_date" gorm:"autoCreateTime"`
}

// PromoValidation is the outcome of checking a code against an order total
type PromoValidation struct {
	IsValid        bool            `json:"is_valid"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Message        string          `json:"message"`
}

const PromoNotFoundMessage = "Promo code not found"

// Evaluate checks activity, expiry, usage and the order minimum, in that order.
func (p *PromoCode) Evaluate(orderTotal decimal.Decimal, now time.Time) PromoValidation {
	invalid := func(msg string) PromoValidation {
		return PromoValidation{DiscountAmount: decimal.Zero, Message: msg}
	}
	switch {
	case !p.IsActive:
		return invalid("Promo code is no longer active")
	case !now.Before(p.ExpirationDate):
		return invalid("Promo code has expired")
	case p.TimesUsed >= p.UsageLimit:
		return invalid("Promo code usage limit reached")
	case orderTotal.LessThan(p.MinimumOrderAmount):
		return invalid("Minimum order amount of $" + p.MinimumOrderAmount.StringFixed(2) + " required")
	}
	return PromoValidation{
		IsValid:        true,
		DiscountAmount: p.DiscountAmount,
		Message:        "Promo code applied! $" + p.DiscountAmount.StringFixed(2) + " off",
	}
}
