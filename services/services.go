// Package services holds the business rules of the shop. Every multi-step write runs in a
// single store transaction.
package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services bundles one instance of every service over a shared store.
type Services struct {
	Resources    *ResourceService
	Recipes      *RecipeService
	Sandwiches   *SandwichService
	PromoCodes   *PromoCodeService
	Orders       *OrderService
	OrderDetails *OrderDetailService
	Reviews      *ReviewService
	Staff        *StaffService
}

func New(db *gorm.DB, log *logrus.Logger) *Services {
	return &Services{
		Resources:    NewResourceService(db, log),
		Recipes:      NewRecipeService(db, log),
		Sandwiches:   NewSandwichService(db, log),
		PromoCodes:   NewPromoCodeService(db, log),
		Orders:       NewOrderService(db, log),
		OrderDetails: NewOrderDetailService(db, log),
		Reviews:      NewReviewService(db, log),
		Staff:        NewStaffService(db, log),
	}
}
