package entities

type ChatRequest struct {
	Message   string  `json:"message" validate:"notblank,max=2000"`
	SessionID *string `json:"session_id,omitempty" validate:"omitempty,uuid"`
	UserEmail *string `json:"user_email,omitempty" validate:"omitempty,email"`
	UserName  *string `json:"user_name,omitempty" validate:"omitempty,max=100"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

type QuickChatRequest struct {
	Message string `json:"message" validate:"notblank,max=2000"`
}

type QuickChatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

type ChatExchange struct {
	Message   string `json:"message"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

type ChatHistory struct {
	SessionID string         `json:"session_id"`
	Messages  []ChatExchange `json:"messages"`
}

type ChatSessionSummary struct {
	SessionID    string  `json:"session_id"`
	UserEmail    *string `json:"user_email,omitempty"`
	UserName     *string `json:"user_name,omitempty"`
	CreatedAt    string  `json:"created_at"`
	LastActivity string  `json:"last_activity"`
	MessageCount int     `json:"message_count"`
}
