package service

import (
	"context"
	"fmt"

	config "github.com/pageflowhq/pageflow/configs"
	"github.com/pageflowhq/pageflow/internal/graph"
	"github.com/pageflowhq/pageflow/internal/repository"
	"github.com/pageflowhq/pageflow/pkg/utils"
)

// ActionService relays moderation and messaging actions to the platform.
// Every action runs under the token of a page owned by the calling account;
// the page lookup is the authorization check.
type ActionService interface {
	ReplyToComment(ctx context.Context, ownerID int64, platformPageID, commentID, message string) (string, error)
	LikeComment(ctx context.Context, ownerID int64, platformPageID, commentID string) error
	UnlikeComment(ctx context.Context, ownerID int64, platformPageID, commentID string) error
	HideComment(ctx context.Context, ownerID int64, platformPageID, commentID string) error
	UnhideComment(ctx context.Context, ownerID int64, platformPageID, commentID string) error
	DeleteComment(ctx context.Context, ownerID int64, platformPageID, commentID string) error
	SendMessage(ctx context.Context, ownerID int64, platformPageID, recipientID, message string) (string, error)
	MarkConversationRead(ctx context.Context, ownerID int64, platformPageID, conversationID string) error
}

type actionService struct {
	cfg config.Config
	gc  *graph.Client
	p   repository.PageRepository
}

func NewActionService(cfg config.Config, gc *graph.Client, p repository.PageRepository) ActionService {
	return &actionService{
		cfg: cfg,
		gc:  gc,
		p:   p,
	}
}

func (s *actionService) pageToken(ctx context.Context, platformPageID string, ownerID int64) (string, error) {
	if platformPageID == "" {
		return "", fmt.Errorf("%w: page id is required", ErrValidation)
	}

	page, exists, err := s.p.GetByPlatformID(ctx, platformPageID, ownerID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: page not found", ErrNotFound)
	}

	return utils.Decrypt(page.PageAccessToken, []byte(s.cfg.SecretKey))
}

func (s *actionService) ReplyToComment(ctx context.Context, ownerID int64, platformPageID, commentID, message string) (string, error) {
	if commentID == "" {
		return "", fmt.Errorf("%w: comment id is required", ErrValidation)
	}
	if message == "" {
		return "", fmt.Errorf("%w: message is required", ErrValidation)
	}

	token, err := s.pageToken(ctx, platformPageID, ownerID)
	if err != nil {
		return "", err
	}

	result, err := s.gc.ReplyToComment(ctx, commentID, message, token)
	if err != nil {
		return "", err
	}
	return result.ID, nil
}

func (s *actionService) LikeComment(ctx context.Context, ownerID int64, platformPageID, commentID string) error {
	return s.commentAction(ctx, ownerID, platformPageID, commentID, s.gc.LikeComment)
}

func (s *actionService) UnlikeComment(ctx context.Context, ownerID int64, platformPageID, commentID string) error {
	return s.commentAction(ctx, ownerID, platformPageID, commentID, s.gc.UnlikeComment)
}

func (s *actionService) HideComment(ctx context.Context, ownerID int64, platformPageID, commentID string) error {
	return s.commentAction(ctx, ownerID, platformPageID, commentID, s.gc.HideComment)
}

func (s *actionService) UnhideComment(ctx context.Context, ownerID int64, platformPageID, commentID string) error {
	return s.commentAction(ctx, ownerID, platformPageID, commentID, s.gc.UnhideComment)
}

func (s *actionService) DeleteComment(ctx context.Context, ownerID int64, platformPageID, commentID string) error {
	return s.commentAction(ctx, ownerID, platformPageID, commentID, s.gc.DeleteComment)
}

func (s *actionService) commentAction(ctx context.Context, ownerID int64, platformPageID, commentID string, action func(context.Context, string, string) error) error {
	if commentID == "" {
		return fmt.Errorf("%w: comment id is required", ErrValidation)
	}

	token, err := s.pageToken(ctx, platformPageID, ownerID)
	if err != nil {
		return err
	}
	return action(ctx, commentID, token)
}

func (s *actionService) SendMessage(ctx context.Context, ownerID int64, platformPageID, recipientID, message string) (string, error) {
	if recipientID == "" {
		return "", fmt.Errorf("%w: recipient id is required", ErrValidation)
	}
	if message == "" {
		return "", fmt.Errorf("%w: message is required", ErrValidation)
	}

	token, err := s.pageToken(ctx, platformPageID, ownerID)
	if err != nil {
		return "", err
	}

	result, err := s.gc.SendMessage(ctx, recipientID, message, token)
	if err != nil {
		return "", err
	}
	return result.ID, nil
}

func (s *actionService) MarkConversationRead(ctx context.Context, ownerID int64, platformPageID, conversationID string) error {
	if conversationID == "" {
		return fmt.Errorf("%w: conversation id is required", ErrValidation)
	}

	token, err := s.pageToken(ctx, platformPageID, ownerID)
	if err != nil {
		return err
	}
	return s.gc.MarkConversationRead(ctx, conversationID, token)
}
