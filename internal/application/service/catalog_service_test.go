package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product, err := env.catalog.CreateProduct(ctx, &CreateProductInput{
		UserID:       env.userID,
		Name:         "USB key",
		DefaultPrice: 12,
		VatRate:      20,
		Unit:         "piece",
	})
	require.NoError(t, err)
	assert.Equal(t, "USB key", product.Name)

	_, err = env.catalog.CreateProduct(ctx, &CreateProductInput{UserID: env.userID, Name: "  "})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = env.catalog.CreateProduct(ctx, &CreateProductInput{UserID: env.userID, Name: "Bad", DefaultPrice: -1})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestCatalogUnlimitedOnFreePlan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Documents and clients are quota-gated; catalog entries never are.
	for i := 0; i < 10; i++ {
		_, err := env.catalog.CreateService(ctx, &CreateServiceInput{
			UserID:    env.userID,
			Name:      "Consulting",
			UnitPrice: 500,
			VatRate:   20,
		})
		require.NoError(t, err)
	}
}

func TestCreateServiceStartsActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	service, err := env.catalog.CreateService(ctx, &CreateServiceInput{
		UserID:    env.userID,
		Name:      "Maintenance",
		UnitPrice: 90,
		VatRate:   20,
	})
	require.NoError(t, err)
	assert.True(t, service.IsActive)

	inactive := false
	updated, err := env.catalog.UpdateService(ctx, &UpdateServiceInput{
		UserID:   env.userID,
		ID:       service.ID,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 90.0, updated.UnitPrice, "omitted fields keep their value")
}

func TestCatalogOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	otherID := env.seedOtherUser(t)

	product, err := env.catalog.CreateProduct(ctx, &CreateProductInput{
		UserID:       env.userID,
		Name:         "USB key",
		DefaultPrice: 12,
	})
	require.NoError(t, err)

	_, err = env.catalog.GetProduct(ctx, otherID, product.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.ErrorIs(t, env.catalog.DeleteProduct(ctx, otherID, product.ID), apperror.ErrForbidden)
}

func TestListProductsSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"USB key", "USB hub", "Screen"} {
		_, err := env.catalog.CreateProduct(ctx, &CreateProductInput{UserID: env.userID, Name: name, DefaultPrice: 10})
		require.NoError(t, err)
	}

	result, err := env.catalog.ListProducts(ctx, env.userID, nil, "usb")
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Pagination.Total)
}
