package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiKeyCreateAndLookup(t *testing.T) {
	repo := newFakeApiKeyRepo()
	s := NewApiKeyService(repo)

	require.NoError(t, s.Create(context.Background(), 7, "CI key"))

	keys, err := s.List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "CI key", keys[0].KeyName)
	assert.NotEmpty(t, keys[0].ApiKey)

	userID, err := s.GetUserID(context.Background(), keys[0].ApiKey)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	_, err = s.GetUserID(context.Background(), "nope")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestApiKeyLimit(t *testing.T) {
	repo := newFakeApiKeyRepo()
	s := NewApiKeyService(repo)

	for i := 0; i < maxApiKeys; i++ {
		require.NoError(t, s.Create(context.Background(), 7, ""))
	}
	err := s.Create(context.Background(), 7, "one too many")
	require.ErrorIs(t, err, ErrValidation)
}

func TestApiKeyRemove(t *testing.T) {
	repo := newFakeApiKeyRepo()
	s := NewApiKeyService(repo)

	require.NoError(t, s.Create(context.Background(), 7, ""))
	keys, err := s.List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	// Someone else's key id is invisible.
	err = s.RemoveAPIKey(context.Background(), 8, keys[0].ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.RemoveAPIKey(context.Background(), 7, keys[0].ID))
	keys, err = s.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
