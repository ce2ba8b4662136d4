package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/lib/pq"
	"github.com/pageflowhq/pageflow/internal/models"
)

type PageRepository interface {
	Upsert(ctx context.Context, page *models.Page) (*models.Page, error)
	GetByID(ctx context.Context, id, ownerID int64) (*models.Page, bool, error)
	GetByPlatformID(ctx context.Context, platformPageID string, ownerID int64) (*models.Page, bool, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Page, error)
	ListSelected(ctx context.Context, ownerID int64) ([]*models.Page, error)
	SetSelected(ctx context.Context, id, ownerID int64, selected bool) error
	SetSelectedAll(ctx context.Context, ownerID int64, selected bool) error
	SetSelection(ctx context.Context, ownerID int64, selectedIDs []int64) error
}

type pageRepository struct {
	db *sql.DB
}

func NewPageRepository(db *sql.DB) PageRepository {
	return &pageRepository{db: db}
}

const pageColumns = `
	id,
	platform_page_id,
	owner_id,
	name,
	COALESCE(category, ''),
	COALESCE(avatar_url, ''),
	page_access_token,
	is_selected,
	permissions,
	source,
	last_synced_at,
	created_at,
	updated_at`

func scanPageRow(scan func(dest ...any) error) (*models.Page, error) {
	var p models.Page
	var permissions []byte
	var lastSyncedAt sql.NullTime

	err := scan(&p.ID, &p.PlatformPageID, &p.OwnerID, &p.Name, &p.Category, &p.AvatarURL,
		&p.PageAccessToken, &p.IsSelected, &permissions, &p.Source, &lastSyncedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &p.Permissions); err != nil {
			return nil, err
		}
	}
	p.LastSyncedAt = lastSyncedAt.Time
	return &p, nil
}

// Upsert writes one reconciled page keyed by (platform_page_id, owner_id).
// On conflict the descriptive fields, token, permissions, source and sync
// watermark are refreshed in place; is_selected keeps its stored value so a
// re-sync never resets a user's selection.
func (r *pageRepository) Upsert(ctx context.Context, page *models.Page) (*models.Page, error) {
	permissions, err := json.Marshal(page.Permissions)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if page.Permissions == nil {
		permissions = []byte("[]")
	}

	query := `
		INSERT INTO pages (platform_page_id, owner_id, name, category, avatar_url, page_access_token, is_selected, permissions, source, last_synced_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10)
		ON CONFLICT (platform_page_id, owner_id) DO UPDATE
		SET name = EXCLUDED.name,
			category = EXCLUDED.category,
			avatar_url = EXCLUDED.avatar_url,
			page_access_token = EXCLUDED.page_access_token,
			permissions = EXCLUDED.permissions,
			source = EXCLUDED.source,
			last_synced_at = EXCLUDED.last_synced_at,
			updated_at = CURRENT_TIMESTAMP
		RETURNING ` + pageColumns

	row := r.db.QueryRowContext(ctx, query,
		page.PlatformPageID,
		page.OwnerID,
		page.Name,
		page.Category,
		page.AvatarURL,
		page.PageAccessToken,
		page.IsSelected,
		permissions,
		page.Source,
		page.LastSyncedAt,
	)

	saved, err := scanPageRow(row.Scan)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return saved, nil
}

func (r *pageRepository) GetByID(ctx context.Context, id, ownerID int64) (*models.Page, bool, error) {
	query := "SELECT " + pageColumns + " FROM pages WHERE id = $1 AND owner_id = $2"
	page, err := scanPageRow(r.db.QueryRowContext(ctx, query, id, ownerID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return page, true, nil
}

func (r *pageRepository) GetByPlatformID(ctx context.Context, platformPageID string, ownerID int64) (*models.Page, bool, error) {
	query := "SELECT " + pageColumns + " FROM pages WHERE platform_page_id = $1 AND owner_id = $2"
	page, err := scanPageRow(r.db.QueryRowContext(ctx, query, platformPageID, ownerID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return page, true, nil
}

func (r *pageRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Page, error) {
	query := "SELECT " + pageColumns + " FROM pages WHERE owner_id = $1 ORDER BY name ASC"
	return r.list(ctx, query, ownerID)
}

func (r *pageRepository) ListSelected(ctx context.Context, ownerID int64) ([]*models.Page, error) {
	query := "SELECT " + pageColumns + " FROM pages WHERE owner_id = $1 AND is_selected = TRUE ORDER BY name ASC"
	return r.list(ctx, query, ownerID)
}

func (r *pageRepository) list(ctx context.Context, query string, args ...any) ([]*models.Page, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var pages []*models.Page
	for rows.Next() {
		page, err := scanPageRow(rows.Scan)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) SetSelected(ctx context.Context, id, ownerID int64, selected bool) error {
	query := "UPDATE pages SET is_selected = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND owner_id = $3"
	result, err := r.db.ExecContext(ctx, query, selected, id, ownerID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *pageRepository) SetSelectedAll(ctx context.Context, ownerID int64, selected bool) error {
	query := "UPDATE pages SET is_selected = $1, updated_at = CURRENT_TIMESTAMP WHERE owner_id = $2"
	_, err := r.db.ExecContext(ctx, query, selected, ownerID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// SetSelection replaces the owner's selection atomically: everything off,
// then the given ids on.
func (r *pageRepository) SetSelection(ctx context.Context, ownerID int64, selectedIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE pages SET is_selected = FALSE, updated_at = CURRENT_TIMESTAMP WHERE owner_id = $1", ownerID); err != nil {
		slog.Info(err.Error())
		return err
	}

	if len(selectedIDs) > 0 {
		query := "UPDATE pages SET is_selected = TRUE, updated_at = CURRENT_TIMESTAMP WHERE owner_id = $1 AND id = ANY($2)"
		if _, err := tx.ExecContext(ctx, query, ownerID, pq.Array(selectedIDs)); err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
