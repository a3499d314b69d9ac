package services

import (
	"context"
	"testing"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemConsumesStockAndSnapshotsPrice(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	sandwich, bread, tomato := blt(t, svc)
	order := seedOrder(t, svc, "Ada")

	detail, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 2, SpecialInstructions: "no mayo"})
	require.NoError(t, err)
	assert.True(t, detail.UnitPrice.Equal(dec("12.50")))
	assert.True(t, detail.Subtotal.Equal(dec("25")))
	assert.Equal(t, 16, stockOf(t, svc, bread.ID))
	assert.Equal(t, 6, stockOf(t, svc, tomato.ID))

	price := dec("20")
	_, err = svc.Sandwiches.Update(ctx, sandwich.ID, UpdateSandwichRequest{Price: &price})
	require.NoError(t, err)

	got, err := svc.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.OrderDetails, 1)
	assert.True(t, got.OrderDetails[0].UnitPrice.Equal(dec("12.50")), "price is fixed when the item is added")
	assert.True(t, got.SubtotalAmount.Equal(dec("25")))
	assert.True(t, got.TotalAmount.Equal(dec("25")))
}

func TestAddItemShortageChangesNothing(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	sandwich, bread, tomato := blt(t, svc)
	order := seedOrder(t, svc, "Ada")

	_, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 5})
	require.Error(t, err)
	assert.True(t, apperr.IsBusinessRule(err))
	assert.Contains(t, err.Error(), "Tomato (need 15 piece, have 12)")

	assert.Equal(t, 20, stockOf(t, svc, bread.ID))
	assert.Equal(t, 12, stockOf(t, svc, tomato.ID))
	items, err := svc.OrderDetails.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddItemRules(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	sandwich, _, _ := blt(t, svc)
	order := seedOrder(t, svc, "Ada")

	_, err := svc.OrderDetails.Add(ctx, 999, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 1})
	assert.True(t, apperr.IsNotFound(err))
	_, err = svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: 999, Quantity: 1})
	assert.True(t, apperr.IsNotFound(err))
	_, err = svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 0})
	assert.True(t, apperr.IsBusinessRule(err))

	_, _, err = svc.Sandwiches.ToggleAvailability(ctx, sandwich.ID)
	require.NoError(t, err)
	_, err = svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, "Sandwich 'BLT' is not available", err.Error())

	_, _, err = svc.Sandwiches.ToggleAvailability(ctx, sandwich.ID)
	require.NoError(t, err)
	_, _, err = svc.Orders.UpdateStatus(ctx, order.ID, models.StatusPreparing, 1, "")
	require.NoError(t, err)
	_, err = svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 1})
	assert.True(t, apperr.IsBusinessRule(err), "items are frozen once preparation starts")
}

func TestUpdateItemFollowsQuantityDelta(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	sandwich, _, tomato := blt(t, svc)
	order := seedOrder(t, svc, "Ada")
	detail, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 9, stockOf(t, svc, tomato.ID))

	updated, err := svc.OrderDetails.Update(ctx, detail.ID, UpdateOrderItemRequest{Quantity: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.True(t, updated.Subtotal.Equal(dec("37.50")))
	assert.Equal(t, 3, stockOf(t, svc, tomato.ID))

	_, err = svc.OrderDetails.Update(ctx, detail.ID, UpdateOrderItemRequest{Quantity: intPtr(5)})
	assert.True(t, apperr.IsBusinessRule(err))
	assert.Equal(t, 3, stockOf(t, svc, tomato.ID))

	note := "extra crispy"
	updated, err = svc.OrderDetails.Update(ctx, detail.ID, UpdateOrderItemRequest{Quantity: intPtr(2), SpecialInstructions: &note})
	require.NoError(t, err)
	assert.Equal(t, "extra crispy", updated.SpecialInstructions)
	assert.Equal(t, 6, stockOf(t, svc, tomato.ID))

	got, err := svc.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(dec("25")))
}

func TestRemoveItemRestoresStock(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	sandwich, bread, tomato := blt(t, svc)
	order := seedOrder(t, svc, "Ada")
	detail, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.OrderDetails.Remove(ctx, detail.ID))
	assert.Equal(t, 20, stockOf(t, svc, bread.ID))
	assert.Equal(t, 12, stockOf(t, svc, tomato.ID))

	got, err := svc.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, got.OrderDetails)
	assert.True(t, got.SubtotalAmount.IsZero())
	assert.True(t, got.TotalAmount.IsZero())

	assert.True(t, apperr.IsNotFound(svc.OrderDetails.Remove(ctx, detail.ID)))
}

func TestTotalNeverNegative(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	cheap := seedSandwich(t, svc, "Mini", "3.00", "")
	seedPromo(t, svc, "BIG", "10", "0", 5)
	order := seedOrder(t, svc, "Ada")
	_, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: cheap.ID, Quantity: 1})
	require.NoError(t, err)

	updated, err := svc.Orders.ApplyPromo(ctx, order.ID, "BIG")
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.IsZero())
	assert.True(t, updated.DiscountAmount.Equal(dec("10")))
}

func breadRecipe(t *testing.T, svc *Services, sandwichID, breadID uint) *models.Recipe {
	t.Helper()
	recipes, err := svc.Recipes.ListBySandwich(context.Background(), sandwichID)
	require.NoError(t, err)
	for i := range recipes {
		if recipes[i].ResourceID == breadID {
			return &recipes[i]
		}
	}
	t.Fatalf("no bread recipe for sandwich %d", sandwichID)
	return nil
}

func TestRemoveItemReturnsWhatWasConsumed(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	sandwich, bread, tomato := blt(t, svc)
	order := seedOrder(t, svc, "Ada")
	detail, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 16, stockOf(t, svc, bread.ID))

	// the recipe changes after the item was made
	_, err = svc.Recipes.Update(ctx, breadRecipe(t, svc, sandwich.ID, bread.ID).ID, UpdateRecipeRequest{Amount: intPtr(5)})
	require.NoError(t, err)
	cheese := seedResource(t, svc, "Cheese", 30, 0)
	seedRecipe(t, svc, sandwich.ID, cheese.ID, 1)

	require.NoError(t, svc.OrderDetails.Remove(ctx, detail.ID))
	assert.Equal(t, 20, stockOf(t, svc, bread.ID))
	assert.Equal(t, 12, stockOf(t, svc, tomato.ID))
	assert.Equal(t, 30, stockOf(t, svc, cheese.ID))

	var rows int64
	require.NoError(t, db.Model(&models.OrderItemConsumption{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestShrinkItemReturnsNewestPortionsFirst(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	sandwich, bread, _ := blt(t, svc)
	order := seedOrder(t, svc, "Ada")
	detail, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 16, stockOf(t, svc, bread.ID))

	_, err = svc.Recipes.Update(ctx, breadRecipe(t, svc, sandwich.ID, bread.ID).ID, UpdateRecipeRequest{Amount: intPtr(5)})
	require.NoError(t, err)

	// one more portion at 5 bread
	_, err = svc.OrderDetails.Update(ctx, detail.ID, UpdateOrderItemRequest{Quantity: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 11, stockOf(t, svc, bread.ID))

	// gives back the 5-bread portion, then one 2-bread portion
	_, err = svc.OrderDetails.Update(ctx, detail.ID, UpdateOrderItemRequest{Quantity: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 18, stockOf(t, svc, bread.ID))

	require.NoError(t, svc.OrderDetails.Remove(ctx, detail.ID))
	assert.Equal(t, 20, stockOf(t, svc, bread.ID))
}

func TestRedeemedPromoMinimumHoldsOnItemChanges(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	sandwich, _, tomato := blt(t, svc)
	seedPromo(t, svc, "SAVE5", "5", "20", 3)
	order := seedOrder(t, svc, "Ada")
	detail, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Orders.ApplyPromo(ctx, order.ID, "SAVE5")
	require.NoError(t, err)

	_, err = svc.OrderDetails.Update(ctx, detail.ID, UpdateOrderItemRequest{Quantity: intPtr(1)})
	require.Error(t, err)
	assert.True(t, apperr.IsBusinessRule(err))
	assert.Contains(t, err.Error(), "requires a minimum order of $20.00")

	err = svc.OrderDetails.Remove(ctx, detail.ID)
	assert.True(t, apperr.IsBusinessRule(err))

	assert.Equal(t, 6, stockOf(t, svc, tomato.ID), "rejected changes keep the stock")
	got, err := svc.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.OrderDetails, 1)
	assert.Equal(t, 2, got.OrderDetails[0].Quantity)
	assert.True(t, got.TotalAmount.Equal(dec("20")))

	_, err = svc.OrderDetails.Update(ctx, detail.ID, UpdateOrderItemRequest{Quantity: intPtr(3)})
	require.NoError(t, err)
}
