package conversation

import "time"

// Role is the author of a message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session is one client's conversation with the assistant
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is a single turn in a session's history
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// QueryRequest is the body of POST /api/ai-query
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the reply to a query
type QueryResponse struct {
	Response string `json:"response"`
}
