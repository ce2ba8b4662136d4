package models

import "time"

const (
	AccountKindOAuth    = "oauth"
	AccountKindInternal = "internal"
)

type Account struct {
	ID             int64     `db:"id" json:"id"`
	Kind           string    `db:"kind" json:"kind"`
	PlatformUserID string    `db:"platform_user_id" json:"platform_user_id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	AvatarURL      string    `db:"avatar_url" json:"avatar_url"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`

	BusinessManagerID          string    `db:"business_manager_id" json:"business_manager_id"`
	BusinessManagerToken       string    `db:"business_manager_token" json:"-"`
	BusinessManagerName        string    `db:"business_manager_name" json:"business_manager_name"`
	BusinessManagerConnectedAt time.Time `db:"business_manager_connected_at" json:"business_manager_connected_at"`

	LastLoginAt time.Time `db:"last_login_at" json:"last_login_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// IsInternal reports whether this is the shared operator account whose
// Business Manager credentials come from configuration rather than the
// identity store.
func (a *Account) IsInternal() bool {
	return a.Kind == AccountKindInternal
}

// HasExpiredToken reports whether the stored personal token watermark has
// passed. A zero watermark means the token never expires (or none is stored).
func (a *Account) HasExpiredToken(now time.Time) bool {
	return !a.TokenExpiresAt.IsZero() && a.TokenExpiresAt.Before(now)
}
