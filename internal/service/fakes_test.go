package service

import (
	"context"
	"sync"
	"time"

	config "github.com/pageflowhq/pageflow/configs"
	"github.com/pageflowhq/pageflow/internal/models"
)

// testSecretKey is a 32-byte AES key used by every service test.
const testSecretKey = "0123456789abcdef0123456789abcdef"

func testConfig() config.Config {
	return config.Config{
		SecretKey:  testSecretKey,
		CookieName: "pageflow_session",
		AdminName:  "Admin",
	}
}

// fakePageRepo is an in-memory PageRepository keeping the same conflict
// semantics as the Postgres implementation: an upsert refreshes the synced
// fields but never touches is_selected on an existing row.
type fakePageRepo struct {
	mu     sync.Mutex
	nextID int64
	pages  map[int64]*models.Page
}

func newFakePageRepo() *fakePageRepo {
	return &fakePageRepo{nextID: 1, pages: make(map[int64]*models.Page)}
}

func (r *fakePageRepo) Upsert(ctx context.Context, page *models.Page) (*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.pages {
		if existing.PlatformPageID == page.PlatformPageID && existing.OwnerID == page.OwnerID {
			existing.Name = page.Name
			existing.Category = page.Category
			existing.AvatarURL = page.AvatarURL
			existing.PageAccessToken = page.PageAccessToken
			existing.Permissions = page.Permissions
			existing.Source = page.Source
			existing.LastSyncedAt = page.LastSyncedAt
			copied := *existing
			return &copied, nil
		}
	}

	stored := *page
	stored.ID = r.nextID
	r.nextID++
	r.pages[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakePageRepo) GetByID(ctx context.Context, id, ownerID int64) (*models.Page, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[id]
	if !ok || page.OwnerID != ownerID {
		return nil, false, nil
	}
	copied := *page
	return &copied, true, nil
}

func (r *fakePageRepo) GetByPlatformID(ctx context.Context, platformPageID string, ownerID int64) (*models.Page, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, page := range r.pages {
		if page.PlatformPageID == platformPageID && page.OwnerID == ownerID {
			copied := *page
			return &copied, true, nil
		}
	}
	return nil, false, nil
}

func (r *fakePageRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Page
	for _, page := range r.pages {
		if page.OwnerID == ownerID {
			copied := *page
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePageRepo) ListSelected(ctx context.Context, ownerID int64) ([]*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Page
	for _, page := range r.pages {
		if page.OwnerID == ownerID && page.IsSelected {
			copied := *page
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePageRepo) SetSelected(ctx context.Context, id, ownerID int64, selected bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[id]
	if !ok || page.OwnerID != ownerID {
		return nil
	}
	page.IsSelected = selected
	return nil
}

func (r *fakePageRepo) SetSelectedAll(ctx context.Context, ownerID int64, selected bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, page := range r.pages {
		if page.OwnerID == ownerID {
			page.IsSelected = selected
		}
	}
	return nil
}

func (r *fakePageRepo) SetSelection(ctx context.Context, ownerID int64, selectedIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[int64]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		wanted[id] = true
	}
	for _, page := range r.pages {
		if page.OwnerID == ownerID {
			page.IsSelected = wanted[page.ID]
		}
	}
	return nil
}

// fakeAccountRepo is an in-memory AccountRepository.
type fakeAccountRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{nextID: 1, accounts: make(map[int64]*models.Account)}
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, false, nil
	}
	copied := *account
	return &copied, true, nil
}

func (r *fakeAccountRepo) GetByPlatformUserID(ctx context.Context, platformUserID string) (*models.Account, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.PlatformUserID == platformUserID {
			copied := *account
			return &copied, true, nil
		}
	}
	return nil, false, nil
}

func (r *fakeAccountRepo) GetInternal(ctx context.Context) (*models.Account, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.Kind == models.AccountKindInternal {
			copied := *account
			return &copied, true, nil
		}
	}
	return nil, false, nil
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.Account) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *account
	stored.ID = r.nextID
	r.nextID++
	r.accounts[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeAccountRepo) UpdateProfile(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[account.ID]
	if !ok {
		return nil
	}
	stored.Name = account.Name
	stored.Email = account.Email
	stored.AvatarURL = account.AvatarURL
	stored.AccessToken = account.AccessToken
	stored.TokenExpiresAt = account.TokenExpiresAt
	return nil
}

func (r *fakeAccountRepo) SetBusinessManager(ctx context.Context, id int64, businessID, token, name string, connectedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil
	}
	account.BusinessManagerID = businessID
	account.BusinessManagerToken = token
	account.BusinessManagerName = name
	account.BusinessManagerConnectedAt = connectedAt
	return nil
}

func (r *fakeAccountRepo) ClearBusinessManager(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil
	}
	account.BusinessManagerID = ""
	account.BusinessManagerToken = ""
	account.BusinessManagerName = ""
	account.BusinessManagerConnectedAt = time.Time{}
	return nil
}

func (r *fakeAccountRepo) SetLastLogin(ctx context.Context, id int64, loginAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account, ok := r.accounts[id]; ok {
		account.LastLoginAt = loginAt
	}
	return nil
}

func (r *fakeAccountRepo) ListWithCredentials(ctx context.Context) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Account
	for _, account := range r.accounts {
		if account.AccessToken != "" || account.BusinessManagerToken != "" || account.Kind == models.AccountKindInternal {
			copied := *account
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.accounts, id)
	return nil
}

// fakeApiKeyRepo is an in-memory ApiKeyRepository.
type fakeApiKeyRepo struct {
	mu     sync.Mutex
	nextID int64
	keys   map[int64]*models.ApiKey
}

func newFakeApiKeyRepo() *fakeApiKeyRepo {
	return &fakeApiKeyRepo{nextID: 1, keys: make(map[int64]*models.ApiKey)}
}

func (r *fakeApiKeyRepo) GetByKey(ctx context.Context, apiKey string) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range r.keys {
		if key.ApiKey == apiKey {
			return key.UserID, true, nil
		}
	}
	return 0, false, nil
}

func (r *fakeApiKeyRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.ApiKey
	for _, key := range r.keys {
		if key.UserID == userID {
			copied := *key
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeApiKeyRepo) Create(ctx context.Context, apiKey *models.ApiKey) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *apiKey
	stored.ID = r.nextID
	r.nextID++
	r.keys[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeApiKeyRepo) CheckByUserID(ctx context.Context, keyID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.keys[keyID]
	return ok && key.UserID == userID, nil
}

func (r *fakeApiKeyRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.keys, id)
	return nil
}
