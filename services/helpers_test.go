package services

import (
	"context"
	"testing"
	"time"

	"sandwich-shop-api/models"
	"sandwich-shop-api/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := storetest.Open(t)
	return New(db, storetest.Logger()), db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(v int) *int { return &v }

func seedResource(t *testing.T, svc *Services, item string, amount, minimum int) *models.Resource {
	t.Helper()
	r, err := svc.Resources.Create(context.Background(), CreateResourceRequest{
		Item:         item,
		Amount:       amount,
		MinimumStock: intPtr(minimum),
	})
	require.NoError(t, err)
	return r
}

func seedSandwich(t *testing.T, svc *Services, name, price, category string) *models.Sandwich {
	t.Helper()
	s, err := svc.Sandwiches.Create(context.Background(), CreateSandwichRequest{
		SandwichName: name,
		Price:        dec(price),
		Category:     category,
	})
	require.NoError(t, err)
	return s
}

func seedRecipe(t *testing.T, svc *Services, sandwichID, resourceID uint, amount int) *models.Recipe {
	t.Helper()
	r, err := svc.Recipes.Create(context.Background(), CreateRecipeRequest{
		SandwichID: sandwichID,
		ResourceID: resourceID,
		Amount:     amount,
	})
	require.NoError(t, err)
	return r
}

func seedOrder(t *testing.T, svc *Services, customer string) *models.Order {
	t.Helper()
	o, err := svc.Orders.Create(context.Background(), CreateOrderRequest{
		CustomerName: customer,
		Phone:        "555-0100",
		OrderType:    models.OrderTakeout,
	})
	require.NoError(t, err)
	return o
}

func seedPromo(t *testing.T, svc *Services, code, discount, minimum string, limit int) *models.PromoCode {
	t.Helper()
	p, err := svc.PromoCodes.Create(context.Background(), CreatePromoCodeRequest{
		Code:               code,
		DiscountAmount:     dec(discount),
		ExpirationDate:     time.Now().Add(24 * time.Hour),
		UsageLimit:         limit,
		MinimumOrderAmount: dec(minimum),
	})
	require.NoError(t, err)
	return p
}

func stockOf(t *testing.T, svc *Services, id uint) int {
	t.Helper()
	r, err := svc.Resources.Get(context.Background(), id)
	require.NoError(t, err)
	return r.Amount
}

// blt seeds a sandwich with a two-ingredient recipe.
func blt(t *testing.T, svc *Services) (*models.Sandwich, *models.Resource, *models.Resource) {
	t.Helper()
	bread := seedResource(t, svc, "Bread", 20, 5)
	tomato := seedResource(t, svc, "Tomato", 12, 10)
	sandwich := seedSandwich(t, svc, "BLT", "12.50", "Classic, Pork")
	seedRecipe(t, svc, sandwich.ID, bread.ID, 2)
	seedRecipe(t, svc, sandwich.ID, tomato.ID, 3)
	return sandwich, bread, tomato
}
