package poll

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	apperrors "github.com/yanqian/ecosense/pkg/errors"
	"github.com/yanqian/ecosense/pkg/metrics"
)

// Service manages community polls.
type Service interface {
	List(ctx context.Context, voter Voter) ([]View, error)
	Create(ctx context.Context, req CreateRequest) (View, error)
	Vote(ctx context.Context, req VoteRequest) error
}

// Repository persists polls and votes. Vote must increment atomically and,
// when userID is non-nil, reject a second vote by the same user with ErrAlreadyVoted.
type Repository interface {
	List(ctx context.Context) ([]Poll, error)
	Create(ctx context.Context, poll Poll) (Poll, error)
	Vote(ctx context.Context, pollID int64, optionIndex int, userID *int64) (Poll, error)
	VotesByUser(ctx context.Context, userID int64) (map[int64]int, error)
}

// Publisher fans events out to live clients.
type Publisher interface {
	Publish(channel string, payload any)
}

// DefaultDurationDays applies when a poll is created without a duration.
const DefaultDurationDays = 7

// DefaultLiveChannel carries poll events.
const DefaultLiveChannel = "polls"

type service struct {
	cfg       Config
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the poll domain. publisher may be nil.
func NewService(cfg Config, repo Repository, publisher Publisher, logger *slog.Logger) Service {
	if cfg.DefaultDurationDays <= 0 {
		cfg.DefaultDurationDays = DefaultDurationDays
	}
	if cfg.LiveChannel == "" {
		cfg.LiveChannel = DefaultLiveChannel
	}
	return &service{
		cfg:       cfg,
		repo:      repo,
		publisher: publisher,
		logger:    logger.With("component", "poll.service"),
		now:       time.Now,
	}
}

func (s *service) List(ctx context.Context, voter Voter) ([]View, error) {
	polls, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load polls", err)
	}
	var votes map[int64]int
	if voter.Authenticated {
		votes, err = s.repo.VotesByUser(ctx, voter.UserID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load votes", err)
		}
	}
	views := make([]View, 0, len(polls))
	for _, p := range polls {
		v := BuildView(p)
		if idx, ok := votes[p.ID]; ok {
			v.UserVoted = true
			v.UserVoteIndex = &idx
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (View, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "question is required", nil)
	}
	options := make([]Option, 0, len(req.Options))
	for _, text := range req.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "options must not be empty", nil)
		}
		options = append(options, Option{Text: text})
	}
	if len(options) < 2 {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "at least two options are required", nil)
	}
	days := s.cfg.DefaultDurationDays
	if req.Duration != nil {
		if *req.Duration <= 0 {
			return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "duration must be a positive number of days", nil)
		}
		days = *req.Duration
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, Poll{
		Question:  question,
		Options:   options,
		ExpiresAt: now.AddDate(0, 0, days),
		CreatedAt: now,
	})
	if err != nil {
		return View{}, apperrors.Wrap(apperrors.CodeStorage, "failed to create poll", err)
	}
	view := BuildView(created)
	s.publish("poll_created", view)
	s.logger.Info("poll created", "poll_id", created.ID, "options", len(options), "duration_days", days)
	return view, nil
}

func (s *service) Vote(ctx context.Context, req VoteRequest) error {
	if req.PollID == nil || req.OptionIndex == nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "pollId and optionIndex are required", nil)
	}
	var userID *int64
	if req.Voter.Authenticated {
		id := req.Voter.UserID
		userID = &id
	}
	updated, err := s.repo.Vote(ctx, *req.PollID, *req.OptionIndex, userID)
	metrics.IncPollVote(voteOutcome(err))
	switch {
	case errors.Is(err, ErrPollNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, "poll not found", err)
	case errors.Is(err, ErrInvalidOption):
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid option index", err)
	case errors.Is(err, ErrAlreadyVoted):
		return apperrors.Wrap(apperrors.CodeAlreadyVoted, "you have already voted on this poll", err)
	case err != nil:
		return apperrors.Wrap(apperrors.CodeStorage, "failed to record vote", err)
	}
	s.publish("poll_voted", BuildView(updated))
	s.logger.Info("poll vote recorded", "poll_id", updated.ID, "option", *req.OptionIndex, "authenticated", req.Voter.Authenticated)
	return nil
}

func voteOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrPollNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidOption):
		return "invalid_option"
	case errors.Is(err, ErrAlreadyVoted):
		return "already_voted"
	default:
		return "error"
	}
}

func (s *service) publish(event string, view View) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(s.cfg.LiveChannel, map[string]any{"type": event, "poll": view})
}

// BuildView computes totals and rounded percentages for display.
func BuildView(p Poll) View {
	total := p.TotalVotes()
	options := make([]OptionView, 0, len(p.Options))
	for _, o := range p.Options {
		options = append(options, OptionView{Text: o.Text, Votes: o.Votes, Percentage: Percentage(o.Votes, total)})
	}
	return View{
		ID:         p.ID,
		Question:   p.Question,
		Options:    options,
		TotalVotes: total,
		ExpiresAt:  p.ExpiresAt,
		CreatedAt:  p.CreatedAt,
	}
}

// Percentage rounds votes/total to the nearest whole percent, halves up. A zero total yields 0.
func Percentage(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(votes)*100/float64(total) + 0.5))
}
