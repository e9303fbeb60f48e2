package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spmb/domain"
)

func TestMemoryDraftStoreLifecycle(t *testing.T) {
	store := NewMemoryDraftStore()
	t.Cleanup(store.Close)
	ctx := context.Background()

	id, w, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NotNil(t, w)

	// Get hands back the same wizard, not a copy.
	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Same(t, w, got)

	require.NoError(t, store.Delete(ctx, id))

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestMemoryDraftStoreUnknownID(t *testing.T) {
	store := NewMemoryDraftStore()
	t.Cleanup(store.Close)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestMemoryDraftStoreClose(t *testing.T) {
	store := NewMemoryDraftStore()
	ctx := context.Background()

	id, _, err := store.Create(ctx)
	require.NoError(t, err)

	store.Close()
	// Closing twice is safe.
	store.Close()

	// The store stays usable after the janitor is stopped.
	_, err = store.Get(ctx, id)
	assert.NoError(t, err)

	_, _, err = store.Create(ctx)
	assert.NoError(t, err)
}

func TestMemoryDraftStoreIsolatedDrafts(t *testing.T) {
	store := NewMemoryDraftStore()
	t.Cleanup(store.Close)
	ctx := context.Background()

	id1, w1, err := store.Create(ctx)
	require.NoError(t, err)
	_, w2, err := store.Create(ctx)
	require.NoError(t, err)

	w1.UpdateApplicant(domain.ApplicantData{FullName: "Ahmad"})
	assert.Empty(t, w2.State().Applicant.FullName)

	got, err := store.Get(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "Ahmad", got.State().Applicant.FullName)
}
