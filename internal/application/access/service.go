package access

import (
	"crypto/sha256"
	"sync"

	"golang.org/x/crypto/bcrypt"

	domain "darion/internal/domain/access"
)

// Service guards the API with a single shared access token whose bcrypt
// hash is configured. Without a hash the API is open.
type Service interface {
	Enabled() bool
	Validate(token string) error
	HashToken(token string) (string, error)
}

type service struct {
	hash []byte

	mu        sync.RWMutex
	validated map[[sha256.Size]byte]struct{}
}

// NewService creates a new access service
func NewService(tokenHash string) Service {
	return &service{
		hash:      []byte(tokenHash),
		validated: make(map[[sha256.Size]byte]struct{}),
	}
}

func (s *service) Enabled() bool {
	return len(s.hash) > 0
}

// Validate compares token against the configured hash. Tokens that passed
// once are remembered so bcrypt runs once per token.
func (s *service) Validate(token string) error {
	if !s.Enabled() {
		return nil
	}
	if token == "" {
		return domain.ErrTokenRequired
	}

	key := sha256.Sum256([]byte(token))
	s.mu.RLock()
	_, ok := s.validated[key]
	s.mu.RUnlock()
	if ok {
		return nil
	}

	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(token)); err != nil {
		return domain.ErrInvalidToken
	}

	s.mu.Lock()
	s.validated[key] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *service) HashToken(token string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	return string(bytes), err
}
