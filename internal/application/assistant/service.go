package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"darion/internal/domain/conversation"
	"darion/internal/domain/sorter"
	"darion/internal/infrastructure/logging"
)

const systemPrompt = `You are a helpful AI assistant with the following capabilities:
- File sorting and organization
- Microsoft Outlook integration
- Microsoft OneDrive integration
- Gmail integration
- TimeTree calendar integration
You can help users manage their emails, files, and calendar events.`

// Completer produces the model's reply to a conversation
type Completer interface {
	Complete(ctx context.Context, messages []conversation.Message) (string, error)
}

// Sorter runs file sort jobs
type Sorter interface {
	Sort(ctx context.Context, req sorter.SortRequest) (*sorter.SortResult, error)
}

// Syncer runs integration syncs
type Syncer interface {
	Sync(ctx context.Context, target string) (string, error)
}

// Service defines the assistant use cases
type Service interface {
	// Query answers query within the given session and returns the reply
	// along with the session id, which is newly created when sessionID is
	// empty or unknown.
	Query(ctx context.Context, sessionID, query string) (string, string, error)
	Reset(sessionID string) error
}

type service struct {
	repo         conversation.Repository
	llm          Completer
	sorter       Sorter
	syncer       Syncer
	historyLimit int
}

// NewService creates a new assistant. llm may be nil, in which case
// general questions report the assistant as unavailable.
func NewService(repo conversation.Repository, llm Completer, files Sorter, syncer Syncer, historyLimit int) Service {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &service{
		repo:         repo,
		llm:          llm,
		sorter:       files,
		syncer:       syncer,
		historyLimit: historyLimit,
	}
}

func (s *service) Query(ctx context.Context, sessionID, query string) (string, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", sessionID, conversation.ErrEmptyQuery
	}

	session, err := s.session(sessionID)
	if err != nil {
		return "", sessionID, err
	}
	log := logging.WithContext(ctx).With(zap.String("session_id", session.ID))

	cmd := ParseIntent(query)
	log.Info("processing query", zap.String("intent", string(cmd.Intent)))

	var reply string
	switch {
	case cmd.Intent == IntentSortFiles:
		reply = s.sortFiles(ctx, cmd.Sort)
	case syncTargets[cmd.Intent] != "":
		reply = s.sync(ctx, syncTargets[cmd.Intent])
	default:
		reply, err = s.complete(ctx, session.ID, query)
		if err != nil {
			return "", session.ID, err
		}
	}

	s.remember(log, session.ID, query, reply)
	return reply, session.ID, nil
}

func (s *service) Reset(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.repo.Clear(sessionID); err != nil && !errors.Is(err, conversation.ErrSessionNotFound) {
		return err
	}
	return nil
}

// session loads the session or starts a new one
func (s *service) session(id string) (*conversation.Session, error) {
	if id != "" {
		session, err := s.repo.GetSession(id)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, conversation.ErrSessionNotFound) {
			return nil, err
		}
	}

	session := &conversation.Session{}
	if err := s.repo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) sortFiles(ctx context.Context, req sorter.SortRequest) string {
	if req.SourceDir == "" || req.DestDir == "" {
		return "Please provide both source and destination directories for file sorting."
	}

	result, err := s.sorter.Sort(ctx, req)
	switch {
	case errors.Is(err, sorter.ErrInvalidRequest):
		return fmt.Sprintf("Failed to sort files: %s", err.Error())
	case err != nil:
		logging.WithContext(ctx).Error("error in file sorting", zap.Error(err))
		return "An error occurred while sorting files."
	}

	stats := result.Statistics
	reply := fmt.Sprintf("Successfully sorted %d files into categories. Total size processed: %s.",
		stats.TotalFiles, humanize.IBytes(stats.TotalSize))
	if n := len(result.Failures); n > 0 {
		reply += fmt.Sprintf(" %d %s could not be sorted.", n, plural(n, "file", "files"))
	}
	return reply
}

func (s *service) sync(ctx context.Context, target string) string {
	reply, err := s.syncer.Sync(ctx, target)
	if err != nil {
		logging.WithContext(ctx).Error("error syncing", zap.String("target", target), zap.Error(err))
		return "Failed to sync all services."
	}
	return reply
}

func (s *service) complete(ctx context.Context, sessionID, query string) (string, error) {
	if s.llm == nil {
		return "", conversation.ErrAssistantUnavailable
	}

	history, err := s.repo.Recent(sessionID, s.historyLimit)
	if err != nil {
		return "", err
	}

	messages := make([]conversation.Message, 0, len(history)+2)
	messages = append(messages, conversation.Message{Role: conversation.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, conversation.Message{Role: conversation.RoleUser, Content: query})

	reply, err := s.llm.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", conversation.ErrCompletionFailed, err)
	}
	return reply, nil
}

// remember appends the exchange and trims the history. A failure here
// does not invalidate the reply.
func (s *service) remember(log *zap.Logger, sessionID, query, reply string) {
	for _, msg := range []conversation.Message{
		{SessionID: sessionID, Role: conversation.RoleUser, Content: query},
		{SessionID: sessionID, Role: conversation.RoleAssistant, Content: reply},
	} {
		msg := msg
		if err := s.repo.Append(&msg); err != nil {
			log.Error("failed to store message", zap.Error(err))
			return
		}
	}
	if err := s.repo.Trim(sessionID, s.historyLimit); err != nil {
		log.Error("failed to trim history", zap.Error(err))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
