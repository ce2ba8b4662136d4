package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pageflowhq/pageflow/internal/models"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Account, bool, error)
	GetByPlatformUserID(ctx context.Context, platformUserID string) (*models.Account, bool, error)
	GetInternal(ctx context.Context) (*models.Account, bool, error)
	Create(ctx context.Context, account *models.Account) (int64, error)
	UpdateProfile(ctx context.Context, account *models.Account) error
	SetBusinessManager(ctx context.Context, id int64, businessID, token, name string, connectedAt time.Time) error
	ClearBusinessManager(ctx context.Context, id int64) error
	SetLastLogin(ctx context.Context, id int64, loginAt time.Time) error
	ListWithCredentials(ctx context.Context) ([]*models.Account, error)
	Remove(ctx context.Context, id int64) error
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `
	id,
	kind,
	COALESCE(platform_user_id, ''),
	name,
	COALESCE(email, ''),
	COALESCE(avatar_url, ''),
	COALESCE(access_token, ''),
	COALESCE(refresh_token, ''),
	token_expires_at,
	COALESCE(business_manager_id, ''),
	COALESCE(business_manager_token, ''),
	COALESCE(business_manager_name, ''),
	business_manager_connected_at,
	last_login_at,
	created_at,
	updated_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	var tokenExpiresAt, connectedAt, lastLoginAt sql.NullTime

	err := row.Scan(&a.ID, &a.Kind, &a.PlatformUserID, &a.Name, &a.Email, &a.AvatarURL,
		&a.AccessToken, &a.RefreshToken, &tokenExpiresAt,
		&a.BusinessManagerID, &a.BusinessManagerToken, &a.BusinessManagerName, &connectedAt,
		&lastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.TokenExpiresAt = tokenExpiresAt.Time
	a.BusinessManagerConnectedAt = connectedAt.Time
	a.LastLoginAt = lastLoginAt.Time
	return &a, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*models.Account, bool, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE id = $1"
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return account, true, nil
}

func (r *accountRepository) GetByPlatformUserID(ctx context.Context, platformUserID string) (*models.Account, bool, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE platform_user_id = $1"
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, platformUserID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return account, true, nil
}

func (r *accountRepository) GetInternal(ctx context.Context) (*models.Account, bool, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE kind = $1"
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, models.AccountKindInternal))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return account, true, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) (int64, error) {
	query := `
		INSERT INTO accounts (kind, platform_user_id, name, email, avatar_url, access_token, refresh_token, token_expires_at)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), $8)
		RETURNING id
	`
	var id int64
	var expiresAt any
	if !account.TokenExpiresAt.IsZero() {
		expiresAt = account.TokenExpiresAt
	}

	err := r.db.QueryRowContext(ctx, query,
		account.Kind,
		account.PlatformUserID,
		account.Name,
		account.Email,
		account.AvatarURL,
		account.AccessToken,
		account.RefreshToken,
		expiresAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

// UpdateProfile rotates the personal credentials and refreshes descriptive
// fields after a re-authentication.
func (r *accountRepository) UpdateProfile(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1,
			email = COALESCE(NULLIF($2, ''), email),
			avatar_url = COALESCE(NULLIF($3, ''), avatar_url),
			access_token = NULLIF($4, ''),
			refresh_token = COALESCE(NULLIF($5, ''), refresh_token),
			token_expires_at = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query,
		account.Name,
		account.Email,
		account.AvatarURL,
		account.AccessToken,
		account.RefreshToken,
		account.TokenExpiresAt,
		account.ID,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *accountRepository) SetBusinessManager(ctx context.Context, id int64, businessID, token, name string, connectedAt time.Time) error {
	query := `
		UPDATE accounts
		SET business_manager_id = $1,
			business_manager_token = $2,
			business_manager_name = $3,
			business_manager_connected_at = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, businessID, token, name, connectedAt, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// ClearBusinessManager clears all four linkage columns in one statement; the
// field group is all-or-nothing.
func (r *accountRepository) ClearBusinessManager(ctx context.Context, id int64) error {
	query := `
		UPDATE accounts
		SET business_manager_id = NULL,
			business_manager_token = NULL,
			business_manager_name = NULL,
			business_manager_connected_at = NULL,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *accountRepository) SetLastLogin(ctx context.Context, id int64, loginAt time.Time) error {
	query := "UPDATE accounts SET last_login_at = $1 WHERE id = $2"
	_, err := r.db.ExecContext(ctx, query, loginAt, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// ListWithCredentials returns accounts that can run a sync: anything holding
// either a personal token or a Business Manager token, plus the internal
// account whose credentials live in configuration.
func (r *accountRepository) ListWithCredentials(ctx context.Context) ([]*models.Account, error) {
	query := "SELECT " + accountColumns + ` FROM accounts
		WHERE access_token IS NOT NULL OR business_manager_token IS NOT NULL OR kind = 'internal'`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var a models.Account
		var tokenExpiresAt, connectedAt, lastLoginAt sql.NullTime

		err := rows.Scan(&a.ID, &a.Kind, &a.PlatformUserID, &a.Name, &a.Email, &a.AvatarURL,
			&a.AccessToken, &a.RefreshToken, &tokenExpiresAt,
			&a.BusinessManagerID, &a.BusinessManagerToken, &a.BusinessManagerName, &connectedAt,
			&lastLoginAt, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		a.TokenExpiresAt = tokenExpiresAt.Time
		a.BusinessManagerConnectedAt = connectedAt.Time
		a.LastLoginAt = lastLoginAt.Time
		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) Remove(ctx context.Context, id int64) error {
	query := "DELETE FROM accounts WHERE id = $1"
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
