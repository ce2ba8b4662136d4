package transfer

// PageContext identifies which managed page an aggregated item came from.
type PageContext struct {
	ID             int64  `json:"id"`
	PlatformPageID string `json:"platform_page_id"`
	Name           string `json:"name"`
	AvatarURL      string `json:"avatar_url"`
}

// PostContext identifies the feed item an aggregated comment belongs to.
type PostContext struct {
	ID           string `json:"id"`
	Message      string `json:"message"`
	Picture      string `json:"picture"`
	PermalinkURL string `json:"permalink_url"`
	CreatedTime  string `json:"created_time"`
	IsAd         bool   `json:"is_ad"`
}

// CommentItem is a platform comment enriched with page and post context.
// Ephemeral: produced fresh on every aggregation read, never persisted.
type CommentItem struct {
	GraphComment
	Page PageContext `json:"page"`
	Post PostContext `json:"post"`
}

// ConversationItem is a Messenger conversation enriched with page context.
type ConversationItem struct {
	GraphConversation
	Page PageContext `json:"page"`
}

type SyncSummary struct {
	Total           int `json:"total"`
	Personal        int `json:"personal"`
	BusinessManager int `json:"business_manager"`
}

type BusinessManagerInfo struct {
	BusinessID   string `json:"business_id"`
	BusinessName string `json:"business_name"`
	ConnectedAt  string `json:"connected_at"`
}

type StatsSummary struct {
	UnrepliedMessages  int `json:"unreplied_messages"`
	UnrepliedComments  int `json:"unreplied_comments"`
	TotalConversations int `json:"total_conversations"`
	TotalComments      int `json:"total_comments"`
	TotalPages         int `json:"total_pages"`
	SelectedPages      int `json:"selected_pages"`
}

type QuickStats struct {
	UnreadMessages int `json:"unread_messages"`
}
