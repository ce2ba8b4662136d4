package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/pageflowhq/pageflow/configs"
	"github.com/pageflowhq/pageflow/internal/graph"
	"github.com/pageflowhq/pageflow/internal/models"
	"github.com/pageflowhq/pageflow/internal/repository"
	"github.com/pageflowhq/pageflow/internal/transfer"
	"github.com/pageflowhq/pageflow/pkg/utils"
)

type BusinessService interface {
	Validate(ctx context.Context, token string) (*transfer.GraphUser, error)
	ListBusinesses(ctx context.Context, token string) ([]transfer.GraphBusiness, error)
	Connect(ctx context.Context, account *models.Account, systemUserToken string) (*transfer.BusinessManagerInfo, error)
	Disconnect(ctx context.Context, account *models.Account) error
	Info(account *models.Account) *transfer.BusinessManagerInfo
	ValidateConnected(ctx context.Context, account *models.Account) (bool, string, error)
	PreviewPages(ctx context.Context, account *models.Account) ([]transfer.GraphPage, error)
}

type businessService struct {
	cfg config.Config
	gc  *graph.Client
	a   repository.AccountRepository
}

func NewBusinessService(cfg config.Config, gc *graph.Client, a repository.AccountRepository) BusinessService {
	return &businessService{
		cfg: cfg,
		gc:  gc,
		a:   a,
	}
}

// Validate confirms a system user token is live by resolving its identity.
func (s *businessService) Validate(ctx context.Context, token string) (*transfer.GraphUser, error) {
	user, err := s.gc.Me(ctx, token)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredential, err.Error())
	}
	return user, nil
}

// ListBusinesses reads the business attached directly to the token's identity
// first (the common single-business system user), then falls back to the
// businesses the token can enumerate. Both empty yields an empty list, not an
// error.
func (s *businessService) ListBusinesses(ctx context.Context, token string) ([]transfer.GraphBusiness, error) {
	user, err := s.gc.MeWithBusiness(ctx, token)
	if err != nil {
		slog.Info(err.Error())
	} else if user.Business != nil {
		return []transfer.GraphBusiness{*user.Business}, nil
	}

	businesses, err := s.gc.Businesses(ctx, token)
	if err != nil {
		return nil, err
	}
	return businesses, nil
}

func (s *businessService) Connect(ctx context.Context, account *models.Account, systemUserToken string) (*transfer.BusinessManagerInfo, error) {
	if systemUserToken == "" {
		return nil, fmt.Errorf("%w: system user token is required", ErrValidation)
	}
	if account.IsInternal() {
		return nil, fmt.Errorf("%w: the shared account's Business Manager is managed through configuration", ErrValidation)
	}

	if _, err := s.Validate(ctx, systemUserToken); err != nil {
		return nil, err
	}

	businesses, err := s.ListBusinesses(ctx, systemUserToken)
	if err != nil {
		return nil, fmt.Errorf("%w: could not fetch businesses: %s", ErrInvalidCredential, err.Error())
	}
	if len(businesses) == 0 {
		return nil, fmt.Errorf("%w: no businesses found for this system user token", ErrValidation)
	}

	// Single Business Manager per account; the first one wins.
	business := businesses[0]

	encryptedToken, err := utils.Encrypt([]byte(systemUserToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	connectedAt := time.Now()
	if err := s.a.SetBusinessManager(ctx, account.ID, business.ID, encryptedToken, business.Name, connectedAt); err != nil {
		return nil, err
	}

	return &transfer.BusinessManagerInfo{
		BusinessID:   business.ID,
		BusinessName: business.Name,
		ConnectedAt:  connectedAt.Format(time.RFC3339),
	}, nil
}

func (s *businessService) Disconnect(ctx context.Context, account *models.Account) error {
	if account.IsInternal() {
		return fmt.Errorf("%w: the shared account's Business Manager is managed through configuration", ErrValidation)
	}
	return s.a.ClearBusinessManager(ctx, account.ID)
}

// Info summarizes the connected Business Manager, or nil when none is linked.
func (s *businessService) Info(account *models.Account) *transfer.BusinessManagerInfo {
	if account.IsInternal() && s.cfg.AdminBusinessID != "" {
		return &transfer.BusinessManagerInfo{
			BusinessID:   s.cfg.AdminBusinessID,
			BusinessName: "Configured Business Manager",
		}
	}

	if account.BusinessManagerID == "" {
		return nil
	}

	info := &transfer.BusinessManagerInfo{
		BusinessID:   account.BusinessManagerID,
		BusinessName: account.BusinessManagerName,
	}
	if !account.BusinessManagerConnectedAt.IsZero() {
		info.ConnectedAt = account.BusinessManagerConnectedAt.Format(time.RFC3339)
	}
	return info
}

func (s *businessService) ValidateConnected(ctx context.Context, account *models.Account) (bool, string, error) {
	_, token, err := businessCredentials(s.cfg, account)
	if err != nil {
		return false, "", err
	}
	if token == "" {
		return false, "", fmt.Errorf("%w: no Business Manager connected", ErrValidation)
	}

	if _, err := s.Validate(ctx, token); err != nil {
		if errors.Is(err, ErrInvalidCredential) {
			return false, "Token is invalid or expired: " + err.Error(), nil
		}
		return false, "", err
	}
	return true, "Token is valid", nil
}

// PreviewPages lists the pages reachable through the connected Business
// Manager without writing anything to the record store.
func (s *businessService) PreviewPages(ctx context.Context, account *models.Account) ([]transfer.GraphPage, error) {
	businessID, token, err := businessCredentials(s.cfg, account)
	if err != nil {
		return nil, err
	}
	if businessID == "" || token == "" {
		return nil, fmt.Errorf("%w: no Business Manager connected", ErrValidation)
	}

	owned, err := s.gc.BusinessOwnedPages(ctx, businessID, token)
	if err != nil {
		return nil, err
	}
	client, err := s.gc.BusinessClientPages(ctx, businessID, token)
	if err != nil {
		slog.Info(fmt.Sprintf("no client pages for business %s: %v", businessID, err))
		client = nil
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
