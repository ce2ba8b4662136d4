package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageflowhq/pageflow/internal/graph"
	"github.com/pageflowhq/pageflow/internal/models"
)

func storedPage(t *testing.T, repo *fakePageRepo, ownerID int64, platformID, token string) *models.Page {
	t.Helper()
	page, err := repo.Upsert(context.Background(), &models.Page{
		PlatformPageID:  platformID,
		OwnerID:         ownerID,
		Name:            "Page " + platformID,
		PageAccessToken: encryptToken(t, token),
		IsSelected:      true,
		Source:          models.PageSourcePersonal,
	})
	require.NoError(t, err)
	return page
}

func TestGetCommentsMergesAndSortsAcrossPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/111/posts":
			fmt.Fprint(w, `{"data":[{"id":"111_1","message":"post a","created_time":"2024-05-01T08:00:00+0000"}]}`)
		case "/222/posts":
			fmt.Fprint(w, `{"data":[{"id":"222_1","message":"post b","created_time":"2024-05-01T09:00:00+0000"}]}`)
		case "/111_1/comments":
			fmt.Fprint(w, `{"data":[
				{"id":"c-old","message":"first","created_time":"2024-05-01T10:00:00+0000"},
				{"id":"c-newest","message":"third","created_time":"2024-05-01T12:00:00+0000"}
			]}`)
		case "/222_1/comments":
			fmt.Fprint(w, `{"data":[{"id":"c-mid","message":"second","created_time":"2024-05-01T11:00:00+0000"}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	repo := newFakePageRepo()
	account := &models.Account{ID: 7, Kind: models.AccountKindOAuth}
	pages := []*models.Page{
		storedPage(t, repo, 7, "111", "pt-1"),
		storedPage(t, repo, 7, "222", "pt-2"),
	}

	s := NewEngagementService(testConfig(), graph.NewClient(server.URL), repo)
	comments, err := s.GetComments(context.Background(), account, pages, 50)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	assert.Equal(t, "c-newest", comments[0].ID)
	assert.Equal(t, "c-mid", comments[1].ID)
	assert.Equal(t, "c-old", comments[2].ID)

	assert.Equal(t, "111", comments[0].Page.PlatformPageID)
	assert.Equal(t, "111_1", comments[0].Post.ID)
	assert.False(t, comments[0].Post.IsAd)
}

func TestGetCommentsGlobalLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/111/posts":
			fmt.Fprint(w, `{"data":[{"id":"111_1","created_time":"2024-05-01T08:00:00+0000"}]}`)
		case "/111_1/comments":
			fmt.Fprint(w, `{"data":[
				{"id":"c1","created_time":"2024-05-01T10:00:00+0000"},
				{"id":"c2","created_time":"2024-05-01T11:00:00+0000"},
				{"id":"c3","created_time":"2024-05-01T12:00:00+0000"}
			]}`)
		}
	}))
	defer server.Close()

	repo := newFakePageRepo()
	account := &models.Account{ID: 7, Kind: models.AccountKindOAuth}
	pages := []*models.Page{storedPage(t, repo, 7, "111", "pt-1")}

	s := NewEngagementService(testConfig(), graph.NewClient(server.URL), repo)
	comments, err := s.GetComments(context.Background(), account, pages, 2)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// The cap keeps the newest items.
	assert.Equal(t, "c3", comments[0].ID)
	assert.Equal(t, "c2", comments[1].ID)
}

func TestGetCommentsSkipsFailingPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/111/posts":
			fmt.Fprint(w, `{"error":{"message":"(#190) token expired","type":"OAuthException","code":190}}`)
		case "/222/posts":
			fmt.Fprint(w, `{"data":[{"id":"222_1","created_time":"2024-05-01T08:00:00+0000"}]}`)
		case "/222_1/comments":
			fmt.Fprint(w, `{"data":[{"id":"c1","created_time":"2024-05-01T10:00:00+0000"}]}`)
		}
	}))
	defer server.Close()

	repo := newFakePageRepo()
	account := &models.Account{ID: 7, Kind: models.AccountKindOAuth}
	pages := []*models.Page{
		storedPage(t, repo, 7, "111", "pt-1"),
		storedPage(t, repo, 7, "222", "pt-2"),
	}

	s := NewEngagementService(testConfig(), graph.NewClient(server.URL), repo)
	comments, err := s.GetComments(context.Background(), account, pages, 50)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "222", comments[0].Page.PlatformPageID)
}

func TestGetCommentsAdPostSupplement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/111/posts":
			// Organic feed covers one post; the promoted one is absent.
			fmt.Fprint(w, `{"data":[{"id":"111_1","created_time":"2024-05-01T08:00:00+0000"}]}`)
		case "/111_1/comments":
			fmt.Fprint(w, `{"data":[{"id":"c-organic","created_time":"2024-05-01T10:00:00+0000"}]}`)
		case "/cfg-biz/owned_ad_accounts":
			fmt.Fprint(w, `{"data":[{"id":"act_77","account_id":"77"}]}`)
		case "/act_77/ads":
			fmt.Fprint(w, `{"data":[
				{"id":"ad-1","creative":{"effective_object_story_id":"111_999"}},
				{"id":"ad-dup","creative":{"effective_object_story_id":"111_1"}},
				{"id":"ad-foreign","creative":{"effective_object_story_id":"888_5"}}
			]}`)
		case "/111_999":
			fmt.Fprint(w, `{"id":"111_999","message":"promo","created_time":"2024-05-01T09:00:00+0000"}`)
		case "/111_999/comments":
			fmt.Fprint(w, `{"data":[{"id":"c-ad","created_time":"2024-05-01T11:00:00+0000"}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.AdminBusinessID = "cfg-biz"
	cfg.AdminBusinessToken = "cfg-token"

	repo := newFakePageRepo()
	account := &models.Account{ID: 9, Kind: models.AccountKindInternal}
	pages := []*models.Page{storedPage(t, repo, 9, "111", "pt-1")}

	s := NewEngagementService(cfg, graph.NewClient(server.URL), repo)
	comments, err := s.GetComments(context.Background(), account, pages, 50)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, "c-ad", comments[0].ID)
	assert.True(t, comments[0].Post.IsAd)
	assert.Equal(t, "c-organic", comments[1].ID)
	assert.False(t, comments[1].Post.IsAd)
}

func TestGetConversationsSortedByUpdatedTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/111/conversations":
			fmt.Fprint(w, `{"data":[{"id":"t-old","updated_time":"2024-05-01T08:00:00+0000","unread_count":1}]}`)
		case "/222/conversations":
			fmt.Fprint(w, `{"data":[{"id":"t-new","updated_time":"2024-05-01T09:00:00+0000","unread_count":2}]}`)
		}
	}))
	defer server.Close()

	repo := newFakePageRepo()
	pages := []*models.Page{
		storedPage(t, repo, 7, "111", "pt-1"),
		storedPage(t, repo, 7, "222", "pt-2"),
	}

	s := NewEngagementService(testConfig(), graph.NewClient(server.URL), repo)
	conversations, err := s.GetConversations(context.Background(), pages, 50)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	assert.Equal(t, "t-new", conversations[0].ID)
	assert.Equal(t, "222", conversations[0].Page.PlatformPageID)
	assert.Equal(t, "t-old", conversations[1].ID)
}

func TestGetPostCommentsOwnershipCheck(t *testing.T) {
	repo := newFakePageRepo()
	storedPage(t, repo, 7, "111", "pt-1")

	s := NewEngagementService(testConfig(), graph.NewClient("http://unused.invalid"), repo)

	// A page owned by someone else is invisible.
	_, err := s.GetPostComments(context.Background(), 8, "111_1", "111", 10)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetPostComments(context.Background(), 7, "111_1", "", 10)
	require.ErrorIs(t, err, ErrValidation)
}

func TestGetConversationMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/t-1/messages", r.URL.Path)
		assert.Equal(t, "pt-1", r.URL.Query().Get("access_token"))
		fmt.Fprint(w, `{"data":[{"id":"m1","message":"hi","from":{"id":"u1"}}]}`)
	}))
	defer server.Close()

	repo := newFakePageRepo()
	storedPage(t, repo, 7, "111", "pt-1")

	s := NewEngagementService(testConfig(), graph.NewClient(server.URL), repo)
	messages, err := s.GetConversationMessages(context.Background(), 7, "t-1", "111", 20)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Message)
}
