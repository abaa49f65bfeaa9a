package idea

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/yanqian/ecosense/pkg/errors"
)

// MaxContentRunes bounds the length of a submitted idea.
const MaxContentRunes = 1000

// AnonymousAuthor is recorded when the caller has no username.
const AnonymousAuthor = "User"

// Service manages community ideas.
type Service interface {
	List(ctx context.Context) ([]Idea, error)
	Submit(ctx context.Context, author, content string) (Submitted, error)
}

// Repository persists ideas. List returns newest first.
type Repository interface {
	List(ctx context.Context) ([]Idea, error)
	Create(ctx context.Context, idea Idea) (Idea, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the idea domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "idea.service"),
		now:    time.Now,
	}
}

func (s *service) List(ctx context.Context) ([]Idea, error) {
	ideas, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load ideas", err)
	}
	if ideas == nil {
		ideas = []Idea{}
	}
	return ideas, nil
}

func (s *service) Submit(ctx context.Context, author, content string) (Submitted, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Submitted{}, apperrors.Wrap(apperrors.CodeInvalidInput, "content is required", nil)
	}
	if utf8.RuneCountInString(content) > MaxContentRunes {
		return Submitted{}, apperrors.Wrap(apperrors.CodeInvalidInput, "content must be at most 1000 characters", nil)
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = AnonymousAuthor
	}
	created, err := s.repo.Create(ctx, Idea{
		Author:    author,
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return Submitted{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save idea", err)
	}
	s.logger.Info("idea submitted", "idea_id", created.ID, "author", author)
	return Submitted{Success: true, Idea: created}, nil
}
