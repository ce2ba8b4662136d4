package transfer

// Wire shapes of the Graph API payloads this service consumes. Timestamps
// stay as the platform's strings ("2024-01-02T15:04:05+0000"); they are parsed
// only where ordering is needed.

type GraphPicture struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (p GraphPicture) URL() string {
	return p.Data.URL
}

type GraphPage struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Picture     GraphPicture `json:"picture"`
	AccessToken string       `json:"access_token"`
	Tasks       []string     `json:"tasks"`
}

type GraphUser struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Picture  *GraphPicture  `json:"picture,omitempty"`
	Business *GraphBusiness `json:"business,omitempty"`
}

type GraphBusiness struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedTime string `json:"created_time,omitempty"`
}

type GraphPost struct {
	ID           string `json:"id"`
	Message      string `json:"message"`
	CreatedTime  string `json:"created_time"`
	FullPicture  string `json:"full_picture"`
	PermalinkURL string `json:"permalink_url"`
}

type GraphFrom struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Picture *GraphPicture `json:"picture,omitempty"`
}

type GraphComment struct {
	ID           string     `json:"id"`
	Message      string     `json:"message"`
	CreatedTime  string     `json:"created_time"`
	From         *GraphFrom `json:"from,omitempty"`
	LikeCount    int        `json:"like_count"`
	CommentCount int        `json:"comment_count"`
	IsHidden     bool       `json:"is_hidden"`
	CanHide      bool       `json:"can_hide"`
	CanRemove    bool       `json:"can_remove"`
}

type GraphMessage struct {
	ID          string     `json:"id"`
	Message     string     `json:"message"`
	CreatedTime string     `json:"created_time"`
	From        *GraphFrom `json:"from,omitempty"`
}

type GraphParticipants struct {
	Data []GraphFrom `json:"data"`
}

type GraphMessagePreview struct {
	Data []GraphMessage `json:"data"`
}

type GraphConversation struct {
	ID           string              `json:"id"`
	Participants GraphParticipants   `json:"participants"`
	UpdatedTime  string              `json:"updated_time"`
	MessageCount int                 `json:"message_count"`
	UnreadCount  int                 `json:"unread_count"`
	Snippet      string              `json:"snippet"`
	Messages     GraphMessagePreview `json:"messages"`
}

type GraphAdAccount struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
}

type GraphAdCreative struct {
	EffectiveObjectStoryID string `json:"effective_object_story_id"`
}

type GraphAd struct {
	ID       string           `json:"id"`
	Creative *GraphAdCreative `json:"creative,omitempty"`
}
