package profile

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/ecosense/pkg/errors"
)

// Service manages survey profiles.
type Service interface {
	Get(ctx context.Context, userID int64, username string) (Overview, error)
	Profile(ctx context.Context, userID int64) (*UserProfile, error)
	Upsert(ctx context.Context, userID int64, update Update) (UserProfile, error)
	CompleteSurvey(ctx context.Context, userID int64) error
}

// Repository persists profiles. Update must serialize concurrent writers for one user
// and pass mutate the current profile, or an empty one carrying only UserID.
type Repository interface {
	Get(ctx context.Context, userID int64) (UserProfile, bool, error)
	Update(ctx context.Context, userID int64, mutate func(*UserProfile) error) (UserProfile, error)
}

// DefaultUsername is shown when the caller has no stored account name.
const DefaultUsername = "demo_user"

// completedSurveyStep is recorded when a survey is completed without prior progress.
const completedSurveyStep = 3

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the profile domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "profile.service"),
		now:    time.Now,
	}
}

func (s *service) Get(ctx context.Context, userID int64, username string) (Overview, error) {
	p, found, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Overview{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load profile", err)
	}
	name := strings.TrimSpace(username)
	if name == "" {
		name = DefaultUsername
	}
	out := Overview{ID: userID, Username: name}
	if found && p.Survey != nil && p.Survey.Completed {
		out.HasSurveyCompleted = true
		out.UserProfile = &p
	}
	return out, nil
}

func (s *service) Profile(ctx context.Context, userID int64) (*UserProfile, error) {
	p, found, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load profile", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (s *service) Upsert(ctx context.Context, userID int64, update Update) (UserProfile, error) {
	if err := update.Validate(); err != nil {
		return UserProfile{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if update.Empty() {
		p, _, err := s.repo.Get(ctx, userID)
		if err != nil {
			return UserProfile{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load profile", err)
		}
		p.UserID = userID
		return p, nil
	}
	now := s.now().UTC()
	p, err := s.repo.Update(ctx, userID, func(p *UserProfile) error {
		update.Apply(p)
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return UserProfile{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save profile", err)
	}
	s.logger.Info("profile updated", "user_id", userID,
		"health", update.Health != nil,
		"lifestyle", update.Lifestyle != nil,
		"sensitivities", update.Sensitivities != nil,
		"interests", update.Interests != nil,
	)
	return p, nil
}

func (s *service) CompleteSurvey(ctx context.Context, userID int64) error {
	now := s.now().UTC()
	_, err := s.repo.Update(ctx, userID, func(p *UserProfile) error {
		if p.Survey == nil {
			p.Survey = &Survey{LastStep: completedSurveyStep}
		}
		p.Survey.Completed = true
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to complete survey", err)
	}
	s.logger.Info("survey completed", "user_id", userID)
	return nil
}
