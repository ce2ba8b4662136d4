package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageflowhq/pageflow/internal/graph"
	"github.com/pageflowhq/pageflow/internal/models"
)

func TestPasswordLogin(t *testing.T) {
	cfg := testConfig()
	cfg.AdminPassword = "hunter2"

	accounts := newFakeAccountRepo()
	s := NewAuthService(cfg, graph.NewClient("http://unused.invalid"), accounts)

	userID, err := s.PasswordLogin(context.Background(), "Admin", "hunter2")
	require.NoError(t, err)
	require.NotZero(t, userID)

	account, isExist, err := accounts.GetByID(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, isExist)
	assert.Equal(t, models.AccountKindInternal, account.Kind)
	assert.False(t, account.LastLoginAt.IsZero())

	// A second login reuses the same account row.
	again, err := s.PasswordLogin(context.Background(), "Admin", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, userID, again)
}

func TestPasswordLoginRejections(t *testing.T) {
	cfg := testConfig()
	cfg.AdminPassword = "hunter2"

	accounts := newFakeAccountRepo()
	s := NewAuthService(cfg, graph.NewClient("http://unused.invalid"), accounts)

	_, err := s.PasswordLogin(context.Background(), "Admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredential)

	_, err = s.PasswordLogin(context.Background(), "Intruder", "hunter2")
	require.ErrorIs(t, err, ErrInvalidCredential)

	_, err = s.PasswordLogin(context.Background(), "", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestPasswordLoginNotConfigured(t *testing.T) {
	accounts := newFakeAccountRepo()
	s := NewAuthService(testConfig(), graph.NewClient("http://unused.invalid"), accounts)

	_, err := s.PasswordLogin(context.Background(), "Admin", "anything")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginCallbackRequiresCode(t *testing.T) {
	cfg := testConfig()
	cfg.FacebookAppID = "app"
	cfg.FacebookAppSecret = "secret"

	s := NewAuthService(cfg, graph.NewClient("http://unused.invalid"), newFakeAccountRepo())
	_, err := s.LoginCallback(context.Background(), "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestLoginURL(t *testing.T) {
	cfg := testConfig()
	cfg.FacebookAppID = "app"
	cfg.FacebookAppSecret = "secret"
	cfg.FacebookRedirectURI = "http://localhost:3000/login/callback"

	s := NewAuthService(cfg, graph.NewClient("http://unused.invalid"), newFakeAccountRepo())
	url, state, err := s.LoginURL()
	require.NoError(t, err)
	assert.NotEmpty(t, state)
	assert.Contains(t, url, "client_id=app")
	assert.Contains(t, url, "state="+state)

	// Each call issues a fresh nonce.
	_, state2, err := s.LoginURL()
	require.NoError(t, err)
	assert.NotEqual(t, state, state2)
}
