package services

import (
	"context"
	"testing"

	"sandwich-shop-api/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewEligibility(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	sandwich, _, _ := blt(t, svc)
	other := seedSandwich(t, svc, "Club", "10.00", "")
	order := seedOrder(t, svc, "Ada")
	_, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwich.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Reviews.Create(ctx, CreateReviewRequest{OrderID: order.ID, SandwichID: other.ID, Rating: 4})
	require.Error(t, err)
	assert.True(t, apperr.IsBusinessRule(err))
	assert.Equal(t, "You can only review sandwiches that you actually ordered!", err.Error())

	review, err := svc.Reviews.Create(ctx, CreateReviewRequest{OrderID: order.ID, SandwichID: sandwich.ID, Rating: 4, Comment: "  tasty "})
	require.NoError(t, err)
	assert.Equal(t, "Ada", review.CustomerName)
	assert.Equal(t, "tasty", review.Comment)

	_, err = svc.Reviews.Create(ctx, CreateReviewRequest{OrderID: order.ID, SandwichID: sandwich.ID, Rating: 5})
	assert.True(t, apperr.IsBusinessRule(err))

	_, err = svc.Reviews.Create(ctx, CreateReviewRequest{OrderID: 999, SandwichID: sandwich.ID, Rating: 5})
	assert.True(t, apperr.IsNotFound(err))
	_, err = svc.Reviews.Create(ctx, CreateReviewRequest{OrderID: order.ID, SandwichID: 999, Rating: 5})
	assert.True(t, apperr.IsNotFound(err))
	_, err = svc.Reviews.Create(ctx, CreateReviewRequest{OrderID: order.ID, SandwichID: sandwich.ID, Rating: 6})
	assert.True(t, apperr.IsBusinessRule(err))
}

// reviewed orders the sandwich once per rating and leaves a review for each.
func reviewed(t *testing.T, svc *Services, sandwichID uint, ratings []int, comments []string) {
	t.Helper()
	ctx := context.Background()
	for i, rating := range ratings {
		order := seedOrder(t, svc, "Customer")
		_, err := svc.OrderDetails.Add(ctx, order.ID, AddOrderItemRequest{SandwichID: sandwichID, Quantity: 1})
		require.NoError(t, err)
		_, err = svc.Reviews.Create(ctx, CreateReviewRequest{OrderID: order.ID, SandwichID: sandwichID, Rating: rating, Comment: comments[i]})
		require.NoError(t, err)
	}
}

func TestRatingSummary(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	s := seedSandwich(t, svc, "Tuna", "7.00", "")
	reviewed(t, svc, s.ID, []int{5, 5, 4, 1}, []string{"", "", "", ""})

	summary, err := svc.Reviews.RatingSummary(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalReviews)
	assert.Equal(t, 3.75, summary.AverageRating)
	assert.Equal(t, map[int]int{1: 1, 2: 0, 3: 0, 4: 1, 5: 2}, summary.RatingDistribution)

	_, err = svc.Reviews.RatingSummary(ctx, 999)
	assert.True(t, apperr.IsNotFound(err))
}

func TestLowRatedAndAttention(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	bad := seedSandwich(t, svc, "Soggy", "6.00", "")
	good := seedSandwich(t, svc, "Crispy", "6.00", "")
	reviewed(t, svc, bad.ID, []int{1, 2, 1, 3, 2}, []string{"cold", "", "stale", "ok", "soggy bread"})
	reviewed(t, svc, good.ID, []int{5}, []string{"great"})

	low, err := svc.Reviews.LowRated(ctx, 0)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Soggy", low[0].SandwichName)
	assert.Equal(t, 1.8, low[0].AverageRating)
	require.Len(t, low[0].RecentComplaints, 3)
	for _, c := range low[0].RecentComplaints {
		assert.LessOrEqual(t, c.Rating, 2)
		assert.NotEmpty(t, c.Comment)
	}

	attention, err := svc.Reviews.NeedingAttention(ctx)
	require.NoError(t, err)
	assert.Len(t, attention, 4)

	responded, err := svc.Reviews.AddStaffResponse(ctx, attention[0].ID, "Sorry, we'll fix it")
	require.NoError(t, err)
	assert.NotNil(t, responded.ResponseDate)
	assert.Equal(t, "Sorry, we'll fix it", responded.StaffResponse)

	attention, err = svc.Reviews.NeedingAttention(ctx)
	require.NoError(t, err)
	assert.Len(t, attention, 3)

	unanswered, err := svc.Reviews.Unanswered(ctx)
	require.NoError(t, err)
	assert.Len(t, unanswered, 5)

	_, err = svc.Reviews.AddStaffResponse(ctx, 999, "hi")
	assert.True(t, apperr.IsNotFound(err))
	_, err = svc.Reviews.AddStaffResponse(ctx, responded.ID, "  ")
	assert.True(t, apperr.IsBusinessRule(err))
}

func TestReviewQueriesAndEdits(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	s := seedSandwich(t, svc, "Melt", "8.00", "")
	reviewed(t, svc, s.ID, []int{3}, []string{"fine"})

	bySandwich, err := svc.Reviews.BySandwich(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, bySandwich, 1)

	byCustomer, err := svc.Reviews.ByCustomer(ctx, "custom")
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)

	rating := 4
	updated, err := svc.Reviews.Update(ctx, bySandwich[0].ID, UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "fine", updated.Comment)

	require.NoError(t, svc.Reviews.Delete(ctx, updated.ID))
	all, err := svc.Reviews.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
