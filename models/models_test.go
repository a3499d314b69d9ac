package models

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"spicy", "vegetarian"}, ParseTags(" Vegetarian, spicy ,,VEGETARIAN"))
	assert.Nil(t, ParseTags(""))

	s := Sandwich{Category: "Vegetarian, Spicy"}
	assert.True(t, s.HasTag("spicy"))
	assert.True(t, s.HasTag(" VEGETARIAN "))
	assert.False(t, s.HasTag("veg"))
}

func TestResourceAlertLevel(t *testing.T) {
	r := Resource{Amount: 5, MinimumStock: 10}
	assert.True(t, r.IsLow())
	assert.Equal(t, AlertLow, r.AlertLevel())

	r.Amount = 0
	assert.Equal(t, AlertCritical, r.AlertLevel())

	r.Amount = 11
	assert.False(t, r.IsLow())
}

func TestPromoCodeEvaluate(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	base := PromoCode{
		Code:               "SAVE5",
		DiscountAmount:     decimal.NewFromInt(5),
		ExpirationDate:     now.Add(24 * time.Hour),
		IsActive:           true,
		UsageLimit:         3,
		MinimumOrderAmount: decimal.NewFromInt(20),
	}

	tests := []struct {
		name    string
		mutate  func(p *PromoCode)
		total   decimal.Decimal
		valid   bool
		message string
	}{
		{"applies", func(p *PromoCode) {}, decimal.NewFromInt(25), true, "Promo code applied! $5.00 off"},
		{"below minimum", func(p *PromoCode) {}, decimal.NewFromInt(15), false, "Minimum order amount of $20.00 required"},
		{"inactive", func(p *PromoCode) { p.IsActive = false }, decimal.NewFromInt(25), false, "Promo code is no longer active"},
		{"expired", func(p *PromoCode) { p.ExpirationDate = now }, decimal.NewFromInt(25), false, "Promo code has expired"},
		{"used up", func(p *PromoCode) { p.TimesUsed = 3 }, decimal.NewFromInt(25), false, "Promo code usage limit reached"},
		{"inactive wins over expired", func(p *PromoCode) {
			p.IsActive = false
			p.ExpirationDate = now.Add(-time.Hour)
		}, decimal.NewFromInt(25), false, "Promo code is no longer active"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			v := p.Evaluate(tt.total, now)
			assert.Equal(t, tt.valid, v.IsValid)
			assert.Equal(t, tt.message, v.Message)
			if !tt.valid {
				assert.True(t, v.DiscountAmount.IsZero())
			}
		})
	}
}

func TestTotalFloorsAtZero(t *testing.T) {
	assert.True(t, Total(decimal.NewFromInt(3), decimal.NewFromInt(5)).IsZero())
	assert.Equal(t, "20", Total(decimal.NewFromInt(25), decimal.NewFromInt(5)).String())
}

func TestNewTrackingNumber(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tn := NewTrackingNumber()
		require.Regexp(t, re, tn)
		seen[tn] = true
	}
	assert.Greater(t, len(seen), 95)
}

func TestStatusSets(t *testing.T) {
	assert.True(t, StatusReady.Valid())
	assert.False(t, OrderStatus("cancelled").Valid())
	assert.True(t, PaymentFailed.Valid())
	assert.False(t, PaymentStatus("refunded").Valid())
	assert.True(t, OrderDelivery.Valid())
	assert.False(t, OrderType("dine-in").Valid())
	assert.False(t, StaffRole("customer").Valid())
}

func TestMoneyEncodesAsNumber(t *testing.T) {
	b, err := json.Marshal(PromoValidation{IsValid: true, DiscountAmount: decimal.RequireFromString("5.50")})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"discount_amount":5.5`)
}
