package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClientQuota(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i, name := range []string{"ACME Corp", "Globex", "Initech"} {
		client, err := env.clients.CreateClient(ctx, &CreateClientInput{UserID: env.userID, Name: name})
		require.NoError(t, err, "client %d fits the free allowance", i+1)
		assert.NotEqual(t, uuid.Nil, client.ID)
	}

	_, err := env.clients.CreateClient(ctx, &CreateClientInput{UserID: env.userID, Name: "One too many"})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
}

func TestCreateClientRequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.clients.CreateClient(context.Background(), &CreateClientInput{UserID: env.userID, Name: "   "})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestDeleteClientDoesNotRefundQuota(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"ACME Corp", "Globex", "Initech"} {
		_, err := env.clients.CreateClient(ctx, &CreateClientInput{UserID: env.userID, Name: name})
		require.NoError(t, err)
	}

	list, err := env.clients.ListClients(ctx, env.userID, nil, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	require.NoError(t, env.clients.DeleteClient(ctx, env.userID, list.Items[0].ID))

	// The counter tracks creations, not live rows.
	_, err = env.clients.CreateClient(ctx, &CreateClientInput{UserID: env.userID, Name: "Replacement"})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
}

func TestListClientsSearch(t *testing.T) {
	env := newTestEnv(t)
	env.upgradeToPro(t)
	ctx := context.Background()

	for _, name := range []string{"ACME Corp", "Globex", "Acme Industries"} {
		_, err := env.clients.CreateClient(ctx, &CreateClientInput{UserID: env.userID, Name: name})
		require.NoError(t, err)
	}

	result, err := env.clients.ListClients(ctx, env.userID, nil, "acme")
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Pagination.Total, "search is case-insensitive")

	all, err := env.clients.ListClients(ctx, env.userID, nil, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Pagination.Total)
}

func TestClientOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")
	otherID := env.seedOtherUser(t)

	_, err := env.clients.GetClient(ctx, otherID, client.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	name := "Stolen"
	_, err = env.clients.UpdateClient(ctx, &UpdateClientInput{UserID: otherID, ID: client.ID, Name: &name})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	assert.ErrorIs(t, env.clients.DeleteClient(ctx, otherID, client.ID), apperror.ErrForbidden)
}

func TestUpdateClientPartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.seedClient(t, "ACME Corp")

	email := "billing@acme.example"
	updated, err := env.clients.UpdateClient(ctx, &UpdateClientInput{
		UserID: env.userID,
		ID:     client.ID,
		Email:  &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME Corp", updated.Name, "omitted fields keep their value")
	assert.Equal(t, email, updated.Email)
}
