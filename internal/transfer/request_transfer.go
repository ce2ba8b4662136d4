package transfer

type PasswordLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ConnectBusinessRequest struct {
	SystemUserToken string `json:"system_user_token"`
}

type SelectionUpdateRequest struct {
	SelectedIDs []int64 `json:"selected_ids"`
}

type CommentActionRequest struct {
	PageID string `json:"page_id"`
}

type ReplyRequest struct {
	PageID  string `json:"page_id"`
	Message string `json:"message"`
}

type SendMessageRequest struct {
	PageID      string `json:"page_id"`
	RecipientID string `json:"recipient_id"`
	Message     string `json:"message"`
}

type ConversationReadRequest struct {
	PageID string `json:"page_id"`
}

type ApiKeyCreateRequest struct {
	KeyName string `json:"key_name"`
}

type ApiKeyRemoveRequest struct {
	KeyID int64 `json:"key_id"`
}
