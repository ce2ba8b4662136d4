package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	config "github.com/pageflowhq/pageflow/configs"
	"github.com/pageflowhq/pageflow/internal/graph"
	"github.com/pageflowhq/pageflow/internal/models"
	"github.com/pageflowhq/pageflow/internal/repository"
	"github.com/pageflowhq/pageflow/internal/transfer"
	"github.com/pageflowhq/pageflow/pkg/utils"
)

const (
	// feedWindow is how many recent feed items are inspected per page when
	// aggregating comments.
	feedWindow = 10

	// fanoutLimit caps concurrent per-page fetches within one aggregation
	// call. Ordering of completion is irrelevant; everything is sorted after
	// collection.
	fanoutLimit = 4

	defaultLimit = 50
)

type EngagementService interface {
	GetComments(ctx context.Context, account *models.Account, pages []*models.Page, limit int) ([]transfer.CommentItem, error)
	GetConversations(ctx context.Context, pages []*models.Page, limit int) ([]transfer.ConversationItem, error)
	GetConversationMessages(ctx context.Context, ownerID int64, conversationID, platformPageID string, limit int) ([]transfer.GraphMessage, error)
	GetPostComments(ctx context.Context, ownerID int64, postID, platformPageID string, limit int) ([]transfer.GraphComment, error)
}

type engagementService struct {
	cfg config.Config
	gc  *graph.Client
	p   repository.PageRepository
}

func NewEngagementService(cfg config.Config, gc *graph.Client, p repository.PageRepository) EngagementService {
	return &engagementService{
		cfg: cfg,
		gc:  gc,
		p:   p,
	}
}

// commentCollector accumulates enriched comments during one aggregation call.
// It is request-scoped and passed through the fan-out explicitly; seenPosts
// keeps the ad-post pass from re-fetching comments for a feed item the
// organic pass already covered.
type commentCollector struct {
	mu        sync.Mutex
	items     []transfer.CommentItem
	seenPosts map[string]bool
}

func newCommentCollector() *commentCollector {
	return &commentCollector{seenPosts: make(map[string]bool)}
}

func (cc *commentCollector) markPost(postID string) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.seenPosts[postID] {
		return false
	}
	cc.seenPosts[postID] = true
	return true
}

func (cc *commentCollector) add(items []transfer.CommentItem) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.items = append(cc.items, items...)
}

// GetComments fans out across the given pages, pulls each page's recent feed
// and the comments under every item, then merges into one list sorted newest
// first and truncated to limit. The cap is global, applied after the merge: a
// busy page can crowd out quieter ones when the limit is small. A failing
// page or post contributes nothing and never aborts the rest.
func (s *engagementService) GetComments(ctx context.Context, account *models.Account, pages []*models.Page, limit int) ([]transfer.CommentItem, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	collector := newCommentCollector()

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, fanoutLimit)

	for _, page := range pages {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(page *models.Page) {
			defer wg.Done()
			defer func() { <-semaphore }()
			s.collectPageComments(ctx, page, limit, collector)
		}(page)
	}
	wg.Wait()

	// Promoted posts may never appear in the organic feed listing; discover
	// them through the business's ad accounts and fetch whatever the feed
	// pass did not already cover.
	s.collectAdPostComments(ctx, account, pages, limit, collector)

	sort.SliceStable(collector.items, func(i, j int) bool {
		return parseGraphTime(collector.items[i].CreatedTime).After(parseGraphTime(collector.items[j].CreatedTime))
	})

	if len(collector.items) > limit {
		collector.items = collector.items[:limit]
	}
	return collector.items, nil
}

func (s *engagementService) collectPageComments(ctx context.Context, page *models.Page, limit int, collector *commentCollector) {
	token, err := utils.Decrypt(page.PageAccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		slog.Info(fmt.Sprintf("decrypt token for page %s: %v", page.Name, err))
		return
	}

	posts, err := s.gc.PagePosts(ctx, page.PlatformPageID, token, feedWindow)
	if err != nil {
		slog.Info(fmt.Sprintf("error fetching posts for page %s: %v", page.Name, err))
		return
	}

	for _, post := range posts {
		if !collector.markPost(post.ID) {
			continue
		}

		comments, err := s.gc.PostComments(ctx, post.ID, token, limit)
		if err != nil {
			slog.Info(fmt.Sprintf("error fetching comments for post %s: %v", post.ID, err))
			continue
		}

		collector.add(enrichComments(comments, page, post, false))
	}
}

// collectAdPostComments runs the supplementary ad-post pass. Each ad creative
// names the feed item it promotes as "<pageID>_<postID>"; only stories on
// pages in this aggregation, not yet covered by the organic pass, are
// fetched. Any failure here degrades to skipping that ad, account or story.
func (s *engagementService) collectAdPostComments(ctx context.Context, account *models.Account, pages []*models.Page, limit int, collector *commentCollector) {
	businessID, businessToken, err := businessCredentials(s.cfg, account)
	if err != nil || businessID == "" || businessToken == "" {
		return
	}

	pagesByPlatformID := make(map[string]*models.Page, len(pages))
	for _, page := range pages {
		pagesByPlatformID[page.PlatformPageID] = page
	}

	adAccounts, err := s.gc.AdAccounts(ctx, businessID, businessToken)
	if err != nil {
		slog.Info(fmt.Sprintf("error fetching ad accounts for business %s: %v", businessID, err))
		return
	}

	for _, adAccount := range adAccounts {
		ads, err := s.gc.AdAccountAds(ctx, adAccount.ID, businessToken)
		if err != nil {
			slog.Info(fmt.Sprintf("error fetching ads for ad account %s: %v", adAccount.ID, err))
			continue
		}

		for _, ad := range ads {
			if ad.Creative == nil || ad.Creative.EffectiveObjectStoryID == "" {
				continue
			}
			storyID := ad.Creative.EffectiveObjectStoryID

			pageID, _, found := strings.Cut(storyID, "_")
			if !found {
				continue
			}
			page, ok := pagesByPlatformID[pageID]
			if !ok {
				continue
			}
			if !collector.markPost(storyID) {
				continue
			}

			token, err := utils.Decrypt(page.PageAccessToken, []byte(s.cfg.SecretKey))
			if err != nil {
				slog.Info(fmt.Sprintf("decrypt token for page %s: %v", page.Name, err))
				continue
			}

			post, err := s.gc.Post(ctx, storyID, token)
			if err != nil {
				slog.Info(fmt.Sprintf("error fetching ad post %s: %v", storyID, err))
				continue
			}

			comments, err := s.gc.PostComments(ctx, storyID, token, limit)
			if err != nil {
				slog.Info(fmt.Sprintf("error fetching comments for ad post %s: %v", storyID, err))
				continue
			}

			collector.add(enrichComments(comments, page, *post, true))
		}
	}
}

func enrichComments(comments []transfer.GraphComment, page *models.Page, post transfer.GraphPost, isAd bool) []transfer.CommentItem {
	items := make([]transfer.CommentItem, 0, len(comments))
	for _, comment := range comments {
		items = append(items, transfer.CommentItem{
			GraphComment: comment,
			Page: transfer.PageContext{
				ID:             page.ID,
				PlatformPageID: page.PlatformPageID,
				Name:           page.Name,
				AvatarURL:      page.AvatarURL,
			},
			Post: transfer.PostContext{
				ID:           post.ID,
				Message:      post.Message,
				Picture:      post.FullPicture,
				PermalinkURL: post.PermalinkURL,
				CreatedTime:  post.CreatedTime,
				IsAd:         isAd,
			},
		})
	}
	return items
}

// GetConversations aggregates Messenger conversations across pages: same
// shape as GetComments, sorted by updated_time descending, global limit after
// the merge, per-page failures skipped.
func (s *engagementService) GetConversations(ctx context.Context, pages []*models.Page, limit int) ([]transfer.ConversationItem, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	var mu sync.Mutex
	var items []transfer.ConversationItem

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, fanoutLimit)

	for _, page := range pages {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(page *models.Page) {
			defer wg.Done()
			defer func() { <-semaphore }()

			token, err := utils.Decrypt(page.PageAccessToken, []byte(s.cfg.SecretKey))
			if err != nil {
				slog.Info(fmt.Sprintf("decrypt token for page %s: %v", page.Name, err))
				return
			}

			conversations, err := s.gc.PageConversations(ctx, page.PlatformPageID, token, limit)
			if err != nil {
				slog.Info(fmt.Sprintf("error fetching conversations for page %s: %v", page.Name, err))
				return
			}

			enriched := make([]transfer.ConversationItem, 0, len(conversations))
			for _, conversation := range conversations {
				enriched = append(enriched, transfer.ConversationItem{
					GraphConversation: conversation,
					Page: transfer.PageContext{
						ID:             page.ID,
						PlatformPageID: page.PlatformPageID,
						Name:           page.Name,
						AvatarURL:      page.AvatarURL,
					},
				})
			}

			mu.Lock()
			items = append(items, enriched...)
			mu.Unlock()
		}(page)
	}
	wg.Wait()

	sort.SliceStable(items, func(i, j int) bool {
		return parseGraphTime(items[i].UpdatedTime).After(parseGraphTime(items[j].UpdatedTime))
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// GetConversationMessages is a pass-through scoped to one page's token. The
// page must belong to the calling account; otherwise the lookup fails with
// ErrNotFound before its token is used.
func (s *engagementService) GetConversationMessages(ctx context.Context, ownerID int64, conversationID, platformPageID string, limit int) ([]transfer.GraphMessage, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	token, err := s.resolvePageToken(ctx, platformPageID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.gc.ConversationMessages(ctx, conversationID, token, limit)
}

// GetPostComments is the single-post counterpart, same ownership rule.
func (s *engagementService) GetPostComments(ctx context.Context, ownerID int64, postID, platformPageID string, limit int) ([]transfer.GraphComment, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	token, err := s.resolvePageToken(ctx, platformPageID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.gc.PostComments(ctx, postID, token, limit)
}

func (s *engagementService) resolvePageToken(ctx context.Context, platformPageID string, ownerID int64) (string, error) {
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
