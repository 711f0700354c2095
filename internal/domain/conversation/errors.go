package conversation

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrEmptyQuery           = errors.New("no query provided")
	ErrAssistantUnavailable = errors.New("assistant is not configured")
	ErrCompletionFailed     = errors.New("failed to get AI response")
)
