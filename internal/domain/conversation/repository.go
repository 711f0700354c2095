package conversation

// Repository defines the contract for conversation storage
type Repository interface {
	CreateSession(session *Session) error
	GetSession(id string) (*Session, error)
	Append(msg *Message) error
	Recent(sessionID string, limit int) ([]Message, error)
	Trim(sessionID string, keep int) error
	Clear(sessionID string) error
}
