package services

import (
	"context"
	"testing"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffCreateAndAuthenticate(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	user, err := svc.Staff.Create(ctx, CreateStaffRequest{Name: "Sam", Email: "Sam@Shop.test", Password: "secret1", Role: models.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, "sam@shop.test", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	got, err := svc.Staff.Authenticate(ctx, LoginRequest{Email: "sam@shop.test", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Staff.Authenticate(ctx, LoginRequest{Email: "sam@shop.test", Password: "wrong"})
	assert.True(t, apperr.IsBusinessRule(err))
	_, err = svc.Staff.Authenticate(ctx, LoginRequest{Email: "nobody@shop.test", Password: "secret1"})
	assert.True(t, apperr.IsBusinessRule(err))

	_, err = svc.Staff.Create(ctx, CreateStaffRequest{Name: "Dup", Email: "sam@shop.test", Password: "secret1", Role: models.RoleAdmin})
	assert.True(t, apperr.IsConstraint(err))
	_, err = svc.Staff.Create(ctx, CreateStaffRequest{Name: "X", Email: "x@shop.test", Password: "secret1", Role: "driver"})
	assert.True(t, apperr.IsBusinessRule(err))

	_, err = svc.Staff.Get(ctx, 999)
	assert.True(t, apperr.IsNotFound(err))
}
