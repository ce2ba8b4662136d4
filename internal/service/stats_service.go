package service

import (
	"context"

	"github.com/pageflowhq/pageflow/internal/models"
	"github.com/pageflowhq/pageflow/internal/repository"
	"github.com/pageflowhq/pageflow/internal/transfer"
)

// statsWindow bounds how much engagement is inspected when computing counts.
const statsWindow = 100

type StatsService interface {
	GetStats(ctx context.Context, account *models.Account) (*transfer.StatsSummary, error)
	GetQuickStats(ctx context.Context, account *models.Account) (*transfer.QuickStats, error)
}

type statsService struct {
	p  repository.PageRepository
	es EngagementService
}

func NewStatsService(p repository.PageRepository, es EngagementService) StatsService {
	return &statsService{
		p:  p,
		es: es,
	}
}

// IsCommentUnreplied reports whether a top-level comment has no replies under
// it. The page's own reply counts; any reply clears the flag.
func IsCommentUnreplied(comment transfer.GraphComment) bool {
	return comment.CommentCount == 0
}

// IsConversationUnreplied reports whether the most recent message in a
// conversation came from someone other than the page itself. Conversations
// with no message preview are not counted.
func IsConversationUnreplied(conversation transfer.ConversationItem) bool {
	preview := conversation.Messages.Data
	if len(preview) == 0 {
		return false
	}
	last := preview[0]
	if last.From == nil {
		return false
	}
	return last.From.ID != conversation.Page.PlatformPageID
}

// GetStats computes engagement counts over the account's selected pages. The
// counts are derived from a bounded window of recent activity, not from a
// full history scan.
func (s *statsService) GetStats(ctx context.Context, account *models.Account) (*transfer.StatsSummary, error) {
	all, err := s.p.ListByOwner(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	selected, err := s.p.ListSelected(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	summary := &transfer.StatsSummary{
		TotalPages:    len(all),
		SelectedPages: len(selected),
	}

	comments, err := s.es.GetComments(ctx, account, selected, statsWindow)
	if err != nil {
		return nil, err
	}
	summary.TotalComments = len(comments)
	for _, comment := range comments {
		if IsCommentUnreplied(comment.GraphComment) {
			summary.UnrepliedComments++
		}
	}

	conversations, err := s.es.GetConversations(ctx, selected, statsWindow)
	if err != nil {
		return nil, err
	}
	summary.TotalConversations = len(conversations)
	for _, conversation := range conversations {
		if IsConversationUnreplied(conversation) {
			summary.UnrepliedMessages++
		}
	}

	return summary, nil
}

// GetQuickStats sums unread message counts across selected pages. Cheaper
// than GetStats: one conversations pass, no comment traversal.
func (s *statsService) GetQuickStats(ctx context.Context, account *models.Account) (*transfer.QuickStats, error) {
	selected, err := s.p.ListSelected(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	conversations, err := s.es.GetConversations(ctx, selected, statsWindow)
	if err != nil {
		return nil, err
	}

	stats := &transfer.QuickStats{}
	for _, conversation := range conversations {
		stats.UnreadMessages += conversation.UnreadCount
	}
	return stats, nil
}
