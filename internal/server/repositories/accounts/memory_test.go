package accounts

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/dmitrijs2005/skillsync/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	acc, err := r.Create(ctx, &models.Account{ID: "id-1", Email: "ada@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.False(t, acc.CreatedAt.IsZero())

	_, err = r.Create(ctx, &models.Account{ID: "id-2", Email: "ada@example.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := r.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)

	got.Email = "mutated"
	again, _ := r.GetByID(ctx, "id-1")
	assert.Equal(t, "ada@example.com", again.Email, "returned values are copies")

	_, err = r.Create(ctx, &models.Account{ID: "id-2", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = r.UpdateEmail(ctx, "id-1", "bob@example.com")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	upd, err := r.UpdateEmail(ctx, "id-1", "lovelace@example.com")
	require.NoError(t, err)
	assert.Equal(t, "lovelace@example.com", upd.Email)

	_, err = r.GetByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.UpdatePasswordHash(ctx, "id-1", "h2"))
	got, _ = r.GetByID(ctx, "id-1")
	assert.Equal(t, "h2", got.PasswordHash)

	assert.ErrorIs(t, r.UpdatePasswordHash(ctx, "ghost", "x"), common.ErrorNotFound)
	_, err = r.UpdateEmail(ctx, "ghost", "x@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.NoError(t, r.Ping(ctx))
}
