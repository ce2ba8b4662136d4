package service

import (
	"context"
	"fmt"

	"github.com/pageflowhq/pageflow/internal/models"
	"github.com/pageflowhq/pageflow/internal/repository"
)

type PageService interface {
	ListPages(ctx context.Context, ownerID int64) ([]*models.Page, error)
	ListSelectedPages(ctx context.Context, ownerID int64) ([]*models.Page, error)
	ToggleSelection(ctx context.Context, id, ownerID int64) (*models.Page, error)
	UpdateSelection(ctx context.Context, ownerID int64, selectedIDs []int64) error
	SelectAll(ctx context.Context, ownerID int64) error
	DeselectAll(ctx context.Context, ownerID int64) error
}

type pageService struct {
	p repository.PageRepository
}

func NewPageService(p repository.PageRepository) PageService {
	return &pageService{p: p}
}

func (s *pageService) ListPages(ctx context.Context, ownerID int64) ([]*models.Page, error) {
	return s.p.ListByOwner(ctx, ownerID)
}

func (s *pageService) ListSelectedPages(ctx context.Context, ownerID int64) ([]*models.Page, error) {
	return s.p.ListSelected(ctx, ownerID)
}

// ToggleSelection flips whether one page participates in aggregation and
// returns the page in its new state.
func (s *pageService) ToggleSelection(ctx context.Context, id, ownerID int64) (*models.Page, error) {
	page, exists, err := s.p.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: page not found", ErrNotFound)
	}

	if err := s.p.SetSelected(ctx, id, ownerID, !page.IsSelected); err != nil {
		return nil, err
	}

	page.IsSelected = !page.IsSelected
	return page, nil
}

// UpdateSelection replaces the selection set wholesale: pages listed become
// selected, everything else the owner has is deselected. Any id outside the
// owner's pages rejects the whole request.
func (s *pageService) UpdateSelection(ctx context.Context, ownerID int64, selectedIDs []int64) error {
	for _, id := range selectedIDs {
		_, exists, err := s.p.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: page %d not found", ErrNotFound, id)
		}
	}

	return s.p.SetSelection(ctx, ownerID, selectedIDs)
}

func (s *pageService) SelectAll(ctx context.Context, ownerID int64) error {
	return s.p.SetSelectedAll(ctx, ownerID, true)
}

func (s *pageService) DeselectAll(ctx context.Context, ownerID int64) error {
	return s.p.SetSelectedAll(ctx, ownerID, false)
}
