package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	config "github.com/pageflowhq/pageflow/configs"
	"github.com/pageflowhq/pageflow/internal/graph"
	"github.com/pageflowhq/pageflow/internal/models"
	"github.com/pageflowhq/pageflow/internal/repository"
	"github.com/pageflowhq/pageflow/internal/transfer"
	"github.com/pageflowhq/pageflow/pkg/utils"
)

type SyncService interface {
	SyncPages(ctx context.Context, account *models.Account) ([]*models.Page, *transfer.SyncSummary, string, error)
}

type syncService struct {
	cfg config.Config
	gc  *graph.Client
	p   repository.PageRepository
}

func NewSyncService(cfg config.Config, gc *graph.Client, p repository.PageRepository) SyncService {
	return &syncService{
		cfg: cfg,
		gc:  gc,
		p:   p,
	}
}

// SyncPages reconciles the account's stored pages against both credential
// sources. The personal pass runs first; any page it claims is skipped by the
// Business Manager pass, so on overlap the row stays tagged personal. Pages
// absent from the remote responses are left untouched: sync adds and updates,
// it never deletes.
func (s *syncService) SyncPages(ctx context.Context, account *models.Account) ([]*models.Page, *transfer.SyncSummary, string, error) {
	userToken, err := personalToken(s.cfg, account)
	if err != nil {
		return nil, nil, "", err
	}

	businessID, businessToken, err := businessCredentials(s.cfg, account)
	if err != nil {
		return nil, nil, "", err
	}

	if userToken == "" && businessToken == "" {
		return nil, &transfer.SyncSummary{}, "No Facebook credentials connected. Log in with Facebook or connect a Business Manager.", nil
	}

	seen := make(map[string]bool)
	summary := &transfer.SyncSummary{}
	var synced []*models.Page
	var sourceErr error

	if userToken != "" {
		remotePages, err := s.gc.UserPages(ctx, userToken)
		if err != nil {
			slog.Info(fmt.Sprintf("personal pages fetch failed for account %d: %v", account.ID, err))
			sourceErr = err
		}
		for _, remote := range remotePages {
			page, err := s.upsertPage(ctx, account.ID, remote, models.PageSourcePersonal)
			if err != nil {
				return nil, nil, "", err
			}
			seen[remote.ID] = true
			synced = append(synced, page)
			summary.Personal++
		}
	}

	if businessID != "" && businessToken != "" {
		remotePages, err := s.businessPages(ctx, businessID, businessToken)
		if err != nil {
			slog.Info(fmt.Sprintf("business pages fetch failed for account %d: %v", account.ID, err))
			sourceErr = err
		}
		for _, remote := range remotePages {
			if seen[remote.ID] {
				continue
			}
			page, err := s.upsertPage(ctx, account.ID, remote, models.PageSourceBusinessManager)
			if err != nil {
				return nil, nil, "", err
			}
			seen[remote.ID] = true
			synced = append(synced, page)
			summary.BusinessManager++
		}
	}

	summary.Total = len(synced)

	if len(synced) == 0 && sourceErr != nil {
		return nil, nil, "", sourceErr
	}

	if summary.Total == 0 {
		return []*models.Page{}, summary, "No pages found on the connected Facebook credentials.", nil
	}

	message := fmt.Sprintf("Synced %d pages (%d personal, %d via Business Manager)",
		summary.Total, summary.Personal, summary.BusinessManager)
	return synced, summary, message, nil
}

// businessPages fetches owned and client-accessible pages in parallel and
// merges them owned-first. The client_pages edge is missing for some business
// types, so its failure degrades to an empty list rather than failing the
// Business Manager contribution.
func (s *syncService) businessPages(ctx context.Context, businessID, token string) ([]transfer.GraphPage, error) {
	var wg sync.WaitGroup
	var owned, client []transfer.GraphPage
	var ownedErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		owned, ownedErr = s.gc.BusinessOwnedPages(ctx, businessID, token)
	}()
	go func() {
		defer wg.Done()
		var err error
		client, err = s.gc.BusinessClientPages(ctx, businessID, token)
		if err != nil {
			slog.Info(fmt.Sprintf("no client pages for business %s: %v", businessID, err))
			client = nil
		}
	}()
	wg.Wait()

	if ownedErr != nil {
		return nil, ownedErr
	}

	merged := make([]transfer.GraphPage, 0, len(owned)+len(client))
	existing := make(map[string]bool, len(owned))
	for _, page := range owned {
		merged = append(merged, page)
		existing[page.ID] = true
	}
	for _, page := range client {
		if !existing[page.ID] {
			merged = append(merged, page)
		}
	}
	return merged, nil
}

func (s *syncService) upsertPage(ctx context.Context, ownerID int64, remote transfer.GraphPage, source string) (*models.Page, error) {
	encryptedToken, err := utils.Encrypt([]byte(remote.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	permissions := remote.Tasks
	if permissions == nil {
		permissions = []string{}
	}

	page := &models.Page{
		PlatformPageID:  remote.ID,
		OwnerID:         ownerID,
		Name:            remote.Name,
		Category:        remote.Category,
		AvatarURL:       remote.Picture.URL(),
		PageAccessToken: encryptedToken,
		IsSelected:      true,
		Permissions:     permissions,
		Source:          source,
		LastSyncedAt:    time.Now(),
	}
	return s.p.Upsert(ctx, page)
}
