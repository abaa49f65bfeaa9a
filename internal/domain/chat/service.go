package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/ecosense/internal/domain/profile"
	apperrors "github.com/yanqian/ecosense/pkg/errors"
	"github.com/yanqian/ecosense/pkg/metrics"
)

// Service answers resident questions and keeps per user history.
type Service interface {
	History(ctx context.Context, userID int64) ([]Message, error)
	Send(ctx context.Context, userID int64, message string) (Reply, error)
}

// Completer produces the assistant reply for a prompt and conversation window.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []Message) (Completion, error)
}

// TokenCounter estimates prompt tokens for a piece of text.
type TokenCounter interface {
	Count(text string) int
}

// Repository stores conversations. Append keeps at most limit messages per user
// when limit is positive, dropping the oldest.
type Repository interface {
	History(ctx context.Context, userID int64) ([]Message, error)
	Append(ctx context.Context, userID int64, messages []Message, limit int) error
}

// ProfileSource provides the profile used to personalise the prompt.
type ProfileSource interface {
	Profile(ctx context.Context, userID int64) (*profile.UserProfile, error)
}

// messageOverhead approximates the role and separator tokens of one chat message.
const messageOverhead = 4

type service struct {
	cfg       Config
	repo      Repository
	profiles  ProfileSource
	completer Completer
	counter   TokenCounter
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the chat domain.
func NewService(cfg Config, repo Repository, profiles ProfileSource, completer Completer, counter TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		repo:      repo,
		profiles:  profiles,
		completer: completer,
		counter:   counter,
		logger:    logger.With("component", "chat.service"),
		now:       time.Now,
	}
}

func (s *service) History(ctx context.Context, userID int64) ([]Message, error) {
	history, err := s.repo.History(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load chat history", err)
	}
	if history == nil {
		history = []Message{}
	}
	return history, nil
}

func (s *service) Send(ctx context.Context, userID int64, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, apperrors.Wrap(apperrors.CodeInvalidInput, "message is required", nil)
	}
	p, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	history, err := s.repo.History(ctx, userID)
	if err != nil {
		return Reply{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load chat history", err)
	}

	userMsg := Message{Role: RoleUser, Content: message, CreatedAt: s.now().UTC()}
	userMsg.TokenCount = s.count(message)
	systemPrompt := BuildSystemPrompt(s.cfg.SystemPrompt, p)
	window := s.window(systemPrompt, append(history, userMsg))

	reply := Reply{}
	completion, err := s.completer.Complete(ctx, systemPrompt, window)
	switch {
	case err != nil:
		s.logger.Warn("chat completion failed, using fallback", "user_id", userID, "error", err)
		reply.Message, reply.Fallback = FallbackMessage, true
	case strings.TrimSpace(completion.Content) == "":
		s.logger.Warn("chat completion empty, using fallback", "user_id", userID)
		reply.Message, reply.Fallback = FallbackMessage, true
	default:
		reply.Message = completion.Content
		if !completion.Usage.IsZero() {
			usage := completion.Usage
			reply.Usage = &usage
		}
	}
	if reply.Fallback {
		metrics.IncChatFallback()
	}

	assistantMsg := Message{Role: RoleAssistant, Content: reply.Message, CreatedAt: s.now().UTC()}
	assistantMsg.TokenCount = s.count(reply.Message)
	if err := s.repo.Append(ctx, userID, []Message{userMsg, assistantMsg}, s.cfg.HistoryLimit); err != nil {
		return Reply{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save chat history", err)
	}
	s.logger.Info("chat exchange stored", "user_id", userID, "window", len(window), "fallback", reply.Fallback)
	return reply, nil
}

// window keeps the newest messages whose tokens fit the prompt budget.
// The latest message is always kept.
func (s *service) window(systemPrompt string, messages []Message) []Message {
	if len(messages) == 0 {
		return messages
	}
	budget := s.cfg.MaxPromptTokens - s.count(systemPrompt)
	start := len(messages) - 1
	budget -= s.tokens(messages[start])
	for start > 0 {
		cost := s.tokens(messages[start-1])
		if cost > budget {
			break
		}
		budget -= cost
		start--
	}
	return messages[start:]
}

func (s *service) tokens(m Message) int {
	if m.TokenCount > 0 {
		return m.TokenCount + messageOverhead
	}
	return s.count(m.Content) + messageOverhead
}

func (s *service) count(text string) int {
	if s.counter == nil {
		return len(text) / 4
	}
	return s.counter.Count(text)
}
