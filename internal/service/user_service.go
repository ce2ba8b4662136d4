package service

import (
	"context"
	"fmt"

	"github.com/pageflowhq/pageflow/internal/models"
	"github.com/pageflowhq/pageflow/internal/repository"
)

type UserService interface {
	GetAccountInfo(ctx context.Context, id int64) (*models.Account, error)
	RemoveAccount(ctx context.Context, id int64) error
}

type userService struct {
	a repository.AccountRepository
}

func NewUserService(a repository.AccountRepository) UserService {
	return &userService{
		a: a,
	}
}

func (s *userService) GetAccountInfo(ctx context.Context, id int64) (*models.Account, error) {
	account, isExist, err := s.a.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, fmt.Errorf("%w: account not found", ErrNotFound)
	}
	return account, nil
}

// RemoveAccount deletes the account and, through the schema's cascades, its
// pages and keys.
func (s *userService) RemoveAccount(ctx context.Context, id int64) error {
	return s.a.Remove(ctx, id)
}
