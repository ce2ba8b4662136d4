package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pageflowhq/pageflow/internal/transfer"
)

const (
	pageFields    = "id,name,category,picture{url},access_token,tasks"
	postFields    = "id,message,created_time,full_picture,permalink_url"
	commentFields = "id,message,created_time,from{id,name,picture},like_count,comment_count,is_hidden,can_hide,can_remove"
	convFields    = "id,participants,updated_time,message_count,unread_count,snippet,messages.limit(1){id,message,created_time,from}"
	messageFields = "id,message,created_time,from,to"
)

// MutationResult is the typical body of a write call: either the id of the
// created object or a bare success flag.
type MutationResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// Me resolves the identity behind a token.
func (c *Client) Me(ctx context.Context, token string) (*transfer.GraphUser, error) {
	var user transfer.GraphUser
	params := url.Values{"fields": {"id,name"}}
	if err := c.get(ctx, "/me", token, params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// MeWithBusiness additionally asks for the business attached to a system
// user, which covers the common single-business setup.
func (c *Client) MeWithBusiness(ctx context.Context, token string) (*transfer.GraphUser, error) {
	var user transfer.GraphUser
	params := url.Values{"fields": {"id,name,business"}}
	if err := c.get(ctx, "/me", token, params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPages lists pages the token's user personally administers.
func (c *Client) UserPages(ctx context.Context, token string) ([]transfer.GraphPage, error) {
	var out struct {
		Data []transfer.GraphPage `json:"data"`
	}
	params := url.Values{
		"fields": {pageFields},
		"limit":  {"100"},
	}
	if err := c.get(ctx, "/me/accounts", token, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Businesses(ctx context.Context, token string) ([]transfer.GraphBusiness, error) {
	var out struct {
		Data []transfer.GraphBusiness `json:"data"`
	}
	params := url.Values{
		"fields": {"id,name,created_time"},
		"limit":  {"100"},
	}
	if err := c.get(ctx, "/me/businesses", token, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) BusinessOwnedPages(ctx context.Context, businessID, token string) ([]transfer.GraphPage, error) {
	return c.businessPages(ctx, businessID, "owned_pages", token)
}

func (c *Client) BusinessClientPages(ctx context.Context, businessID, token string) ([]transfer.GraphPage, error) {
	return c.businessPages(ctx, businessID, "client_pages", token)
}

func (c *Client) businessPages(ctx context.Context, businessID, edge, token string) ([]transfer.GraphPage, error) {
	var out struct {
		Data []transfer.GraphPage `json:"data"`
	}
	params := url.Values{
		"fields": {pageFields},
		"limit":  {"100"},
	}
	path := fmt.Sprintf("/%s/%s", businessID, edge)
	if err := c.get(ctx, path, token, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AdAccounts lists the ad accounts owned by a business; promoted posts are
// discovered through them since they may never show in the organic feed.
func (c *Client) AdAccounts(ctx context.Context, businessID, token string) ([]transfer.GraphAdAccount, error) {
	var out struct {
		Data []transfer.GraphAdAccount `json:"data"`
	}
	params := url.Values{
		"fields": {"id,account_id"},
		"limit":  {"100"},
	}
	if err := c.get(ctx, "/"+businessID+"/owned_ad_accounts", token, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AdAccountAds lists ads with the feed item their creative promotes.
func (c *Client) AdAccountAds(ctx context.Context, adAccountID, token string) ([]transfer.GraphAd, error) {
	var out struct {
		Data []transfer.GraphAd `json:"data"`
	}
	params := url.Values{
		"fields": {"id,creative{effective_object_story_id}"},
		"limit":  {"50"},
	}
	if err := c.get(ctx, "/"+adAccountID+"/ads", token, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) PagePosts(ctx context.Context, pageID, token string, limit int) ([]transfer.GraphPost, error) {
	var out struct {
		Data []transfer.GraphPost `json:"data"`
	}
	params := url.Values{
		"fields": {postFields},
		"limit":  {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "/"+pageID+"/posts", token, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Post(ctx context.Context, postID, token string) (*transfer.GraphPost, error) {
	var post transfer.GraphPost
	params := url.Values{"fields": {postFields}}
	if err := c.get(ctx, "/"+postID, token, params, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) PostComments(ctx context.Context, postID, token string, limit int) ([]transfer.GraphComment, error) {
	var out struct {
		Data []transfer.GraphComment `json:"data"`
	}
	params := url.Values{
		"fields": {commentFields},
		"order":  {"reverse_chronological"},
		"limit":  {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "/"+postID+"/comments", token, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) PageConversations(ctx context.Context, pageID, token string, limit int) ([]transfer.GraphConversation, error) {
	var out struct {
		Data []transfer.GraphConversation `json:"data"`
	}
	params := url.Values{
		"fields": {convFields},
		"limit":  {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "/"+pageID+"/conversations", token, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ConversationMessages(ctx context.Context, conversationID, token string, limit int) ([]transfer.GraphMessage, error) {
	var out struct {
		Data []transfer.GraphMessage `json:"data"`
	}
	params := url.Values{
		"fields": {messageFields + ",attachments{id,mime_type,name,size,image_data}"},
		"limit":  {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "/"+conversationID+"/messages", token, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ReplyToComment(ctx context.Context, commentID, message, token string) (*MutationResult, error) {
	var result MutationResult
	params := url.Values{"message": {message}}
	if err := c.post(ctx, "/"+commentID+"/comments", token, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) LikeComment(ctx context.Context, commentID, token string) error {
	return c.post(ctx, "/"+commentID+"/likes", token, nil, nil)
}

func (c *Client) UnlikeComment(ctx context.Context, commentID, token string) error {
	return c.delete(ctx, "/"+commentID+"/likes", token, nil, nil)
}

func (c *Client) HideComment(ctx context.Context, commentID, token string) error {
	params := url.Values{"is_hidden": {"true"}}
	return c.post(ctx, "/"+commentID, token, params, nil)
}

func (c *Client) UnhideComment(ctx context.Context, commentID, token string) error {
	params := url.Values{"is_hidden": {"false"}}
	return c.post(ctx, "/"+commentID, token, params, nil)
}

func (c *Client) DeleteComment(ctx context.Context, commentID, token string) error {
	return c.delete(ctx, "/"+commentID, token, nil, nil)
}

// SendMessage delivers a Messenger reply to a page-scoped recipient id.
func (c *Client) SendMessage(ctx context.Context, recipientID, message, token string) (*MutationResult, error) {
	recipient, err := json.Marshal(map[string]string{"id": recipientID})
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return nil, err
	}

	var result MutationResult
	params := url.Values{
		"recipient":      {string(recipient)},
		"message":        {string(body)},
		"messaging_type": {"RESPONSE"},
	}
	if err := c.post(ctx, "/me/messages", token, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) MarkConversationRead(ctx context.Context, conversationID, token string) error {
	params := url.Values{"is_read": {"true"}}
	return c.post(ctx, "/"+conversationID, token, params, nil)
}
