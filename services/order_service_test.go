package services

import (
	"context"
	"testing"
	"time"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	order := seedOrder(t, svc, "Ada")
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, order.TrackingNumber)
	assert.Equal(t, models.StatusReceived, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.True(t, order.TotalAmount.IsZero())

	_, err := svc.Orders.Create(ctx, CreateOrderRequest{CustomerName: "Bo", Phone: "1", OrderType: models.OrderDelivery})
	assert.True(t, apperr.IsBusinessRule(err))

	missing := uint(77)
	_, err = svc.Orders.Create(ctx, CreateOrderRequest{CustomerName: "Bo", Phone: "1", OrderType: models.OrderTakeout, PromoCodeID: &missing})
	assert.True(t, apperr.IsNotFound(err))

	promo := seedPromo(t, svc, "LINK", "1", "0", 1)
	linked, err := svc.Orders.Create(ctx, CreateOrderRequest{CustomerName: "Bo", Phone: "1", OrderType: models.OrderTakeout, PromoCodeID: &promo.ID})
	require.NoError(t, err)
	require.NotNil(t, linked.PromoCodeID)
	got, err := svc.PromoCodes.Get(ctx, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TimesUsed, "linking a code does not redeem it")
}

func TestTrackingLookup(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	order := seedOrder(t, svc, "Ada")

	found, err := svc.Orders.GetByTracking(ctx, order.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = svc.Orders.GetByTracking(ctx, "ord-"+order.TrackingNumber[4:]+"x")
	assert.True(t, apperr.IsNotFound(err))
}

func TestStatusLifecycle(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	order := seedOrder(t, svc, "Ada")

	_, _, err := svc.Orders.UpdateStatus(ctx, order.ID, models.StatusReady, 1, "")
	require.Error(t, err)
	assert.True(t, apperr.IsBusinessRule(err))

	for _, next := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusCompleted} {
		updated, _, err := svc.Orders.UpdateStatus(ctx, order.ID, next, 1, "step")
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	_, _, err = svc.Orders.UpdateStatus(ctx, order.ID, models.StatusReceived, 1, "")
	assert.True(t, apperr.IsBusinessRule(err), "completed is terminal")

	history, err := svc.Orders.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, models.StatusReceived, history[0].ToStatus)
	assert.Equal(t, models.StatusReady, history[3].FromStatus)
	assert.Equal(t, models.StatusCompleted, history[3].ToStatus)

	_, _, err = svc.Orders.UpdateStatus(ctx, 999, models.StatusPreparing, 1, "")
	assert.True(t, apperr.IsNotFound(err))
}

func TestGenericUpdateUsesTransitionTable(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	order := seedOrder(t, svc, "Ada")

	skip := models.StatusCompleted
	_, err := svc.Orders.Update(ctx, order.ID, UpdateOrderRequest{Status: &skip}, 1)
	assert.True(t, apperr.IsBusinessRule(err))

	same := models.StatusReceived
	name := "Ada Lovelace"
	updated, err := svc.Orders.Update(ctx, order.ID, UpdateOrderRequest{Status: &same, CustomerName: &name}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.CustomerName)
	assert.Equal(t, models.StatusReceived, updated.Status)

	next := models.StatusPreparing
	paid := models.PaymentPaid
	updated, err = svc.Orders.Update(ctx, order.ID, UpdateOrderRequest{Status: &next, PaymentStatus: &paid}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, updated.Status)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)

	refunded := models.PaymentStatus("refunded")
	_, err = svc.Orders.Update(ctx, order.ID, UpdateOrderRequest{PaymentStatus: &refunded}, 1)
	assert.True(t, apperr.IsBusinessRule(err))

	delivery := models.OrderDelivery
	_, err = svc.Orders.Update(ctx, order.ID, UpdateOrderRequest{OrderType: &delivery}, 1)
	assert.True(t, apperr.IsBusinessRule(err), "delivery needs an address")

	history, err := svc.Orders.History(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestUpdateTotalAndList(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	order := seedOrder(t, svc, "Ada")
	seedOrder(t, svc, "Bob")

	updated, err := svc.Orders.UpdateTotal(ctx, order.ID, dec("19.99"))
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(dec("19.99")))

	_, err = svc.Orders.UpdateTotal(ctx, order.ID, dec("-1"))
	assert.True(t, apperr.IsBusinessRule(err))
	_, err = svc.Orders.UpdateTotal(ctx, 999, dec("1"))
	assert.True(t, apperr.IsNotFound(err))

	_, _, err = svc.Orders.UpdateStatus(ctx, order.ID, models.StatusPreparing, 0, "")
	require.NoError(t, err)
	preparing, err := svc.Orders.List(ctx, OrderFilter{Status: models.StatusPreparing})
	require.NoError(t, err)
	require.Len(t, preparing, 1)
	assert.Equal(t, order.ID, preparing[0].ID)

	all, err := svc.Orders.List(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestByDateRangeIsInclusive(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	order := seedOrder(t, svc, "Ada")
	_, err := svc.Orders.UpdateTotal(ctx, order.ID, dec("12.50"))
	require.NoError(t, err)

	stamp := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).UpdateColumn("order_date", stamp).Error)

	report, err := svc.Orders.ByDateRange(ctx, stamp, stamp)
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrderCount)
	assert.True(t, report.TotalRevenue.Equal(dec("12.50")))

	report, err = svc.Orders.ByDateRange(ctx, stamp.Add(time.Second), stamp.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, report.OrderCount)
	assert.True(t, report.TotalRevenue.IsZero())

	_, err = svc.Orders.ByDateRange(ctx, stamp, stamp.Add(-time.Hour))
	assert.True(t, apperr.IsBusinessRule(err))
}

func TestApplyPromoToOrder(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	sandwich, _, _ := blt(t, svc)
	promo := seedPromo(t, svc, "SAVE5", "5", "20", 3)
	order := seedOrder(t, svc, "Ada")

	_, err := svc.Orders.ApplyPromo(ctx, order.ID, "SAVE5")
	require.Error(t, err)
	assert.Equal(t, "Minimum order amount of $20.00 required", err.Error())

	_, err = svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 2})
	require.NoError(t, err)

	updated, err := svc.Orders.ApplyPromo(ctx, order.ID, "save5")
	require.NoError(t, err)
	assert.True(t, updated.SubtotalAmount.Equal(dec("25")))
	assert.True(t, updated.DiscountAmount.Equal(dec("5")))
	assert.True(t, updated.TotalAmount.Equal(dec("20")))
	require.NotNil(t, updated.PromoCodeID)
	assert.Equal(t, promo.ID, *updated.PromoCodeID)

	_, err = svc.Orders.ApplyPromo(ctx, order.ID, "SAVE5")
	assert.True(t, apperr.IsBusinessRule(err))

	got, err := svc.PromoCodes.Get(ctx, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TimesUsed)

	_, err = svc.Orders.ApplyPromo(ctx, order.ID, "GHOST")
	assert.True(t, apperr.IsBusinessRule(err), "discount already present is checked first")
}

func TestDeleteOrderCascadesAndRestocks(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	sandwich, bread, tomato := blt(t, svc)
	order := seedOrder(t, svc, "Ada")
	_, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Reviews.Create(ctx, CreateReviewRequest{OrderID: order.ID, SandwichID: sandwich.ID, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 6, stockOf(t, svc, tomato.ID))

	require.NoError(t, svc.Orders.Delete(ctx, order.ID))
	assert.Equal(t, 12, stockOf(t, svc, tomato.ID))
	assert.Equal(t, 20, stockOf(t, svc, bread.ID))

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.OrderDetail{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.OrderItemConsumption{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.True(t, apperr.IsNotFound(svc.Orders.Delete(ctx, order.ID)))
}

func TestZeroDiscountPromoRedeemsOnce(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	promo := seedPromo(t, svc, "FREE", "0", "0", 10)
	order := seedOrder(t, svc, "Ada")

	updated, err := svc.Orders.ApplyPromo(ctx, order.ID, "FREE")
	require.NoError(t, err)
	assert.True(t, updated.PromoRedeemed)

	_, err = svc.Orders.ApplyPromo(ctx, order.ID, "FREE")
	require.Error(t, err)
	assert.Equal(t, "A promo code has already been applied to this order", err.Error())

	got, err := svc.PromoCodes.Get(ctx, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TimesUsed)
}

func TestPromoReferenceAtCreateIsNotARedemption(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	sandwich, _, _ := blt(t, svc)
	promo := seedPromo(t, svc, "SAVE5", "5", "20", 3)
	order, err := svc.Orders.Create(ctx, CreateOrderRequest{
		CustomerName: "Ada",
		Phone:        "555-0100",
		OrderType:    models.OrderTakeout,
		PromoCodeID:  &promo.ID,
	})
	require.NoError(t, err)
	assert.False(t, order.PromoRedeemed)

	// the minimum is not enforced until the code is applied
	_, err = svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 1})
	require.NoError(t, err)
	updated, err := svc.Orders.ApplyPromo(ctx, order.ID, "SAVE5")
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(dec("20")))
}
