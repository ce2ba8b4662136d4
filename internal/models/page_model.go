package models

import "time"

const (
	PageSourcePersonal        = "personal"
	PageSourceBusinessManager = "business_manager"
)

// Page is one managed presence on the platform. Rows are unique per
// (platform_page_id, owner_id); the same remote page synced by two accounts
// yields two independent rows.
type Page struct {
	ID              int64     `db:"id" json:"id"`
	PlatformPageID  string    `db:"platform_page_id" json:"platform_page_id"`
	OwnerID         int64     `db:"owner_id" json:"owner_id"`
	Name            string    `db:"name" json:"name"`
	Category        string    `db:"category" json:"category"`
	AvatarURL       string    `db:"avatar_url" json:"avatar_url"`
	PageAccessToken string    `db:"page_access_token" json:"-"`
	IsSelected      bool      `db:"is_selected" json:"is_selected"`
	Permissions     []string  `db:"permissions" json:"permissions"`
	Source          string    `db:"source" json:"source"`
	LastSyncedAt    time.Time `db:"last_synced_at" json:"last_synced_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
