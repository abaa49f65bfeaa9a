package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ecosense/internal/domain/profile"
	apperrors "github.com/yanqian/ecosense/pkg/errors"
	"github.com/yanqian/ecosense/pkg/metrics"
)

const basePrompt = "You are a Hanoi assistant."

type stubCompleter struct {
	reply   Completion
	err     error
	prompts []string
	windows [][]Message
}

func (s *stubCompleter) Complete(_ context.Context, systemPrompt string, history []Message) (Completion, error) {
	s.prompts = append(s.prompts, systemPrompt)
	s.windows = append(s.windows, append([]Message(nil), history...))
	return s.reply, s.err
}

// wordCounter counts whitespace separated words.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

type memoryRepo struct {
	history map[int64][]Message
}

func (m *memoryRepo) History(_ context.Context, userID int64) ([]Message, error) {
	return append([]Message(nil), m.history[userID]...), nil
}

func (m *memoryRepo) Append(_ context.Context, userID int64, messages []Message, limit int) error {
	h := append(m.history[userID], messages...)
	if limit > 0 && len(h) > limit {
		h = h[len(h)-limit:]
	}
	m.history[userID] = h
	return nil
}

type stubProfiles struct {
	p   *profile.UserProfile
	err error
}

func (s stubProfiles) Profile(context.Context, int64) (*profile.UserProfile, error) {
	return s.p, s.err
}

func newTestService(completer Completer, profiles ProfileSource, cfg Config) (*service, *memoryRepo) {
	repo := &memoryRepo{history: map[int64][]Message{}}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = basePrompt
	}
	if cfg.MaxPromptTokens == 0 {
		cfg.MaxPromptTokens = 1000
	}
	return &service{
		cfg:       cfg,
		repo:      repo,
		profiles:  profiles,
		completer: completer,
		counter:   wordCounter{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) },
	}, repo
}

func TestSendStoresExchange(t *testing.T) {
	completer := &stubCompleter{reply: Completion{Content: "Air is moderate today.", Usage: metrics.TokenUsage{PromptTokens: 20, CompletionTokens: 5, TotalTokens: 25}}}
	svc, repo := newTestService(completer, stubProfiles{}, Config{})

	reply, err := svc.Send(context.Background(), 3, "  How is the air?  ")
	require.NoError(t, err)
	require.Equal(t, "Air is moderate today.", reply.Message)
	require.False(t, reply.Fallback)
	require.Equal(t, 25, reply.Usage.TotalTokens)

	history := repo.history[3]
	require.Len(t, history, 2)
	require.Equal(t, Message{Role: RoleUser, Content: "How is the air?", TokenCount: 4, CreatedAt: svc.now()}, history[0])
	require.Equal(t, RoleAssistant, history[1].Role)
	require.Equal(t, []string{basePrompt}, completer.prompts)
	require.Len(t, completer.windows[0], 1)
}

func TestSendFallsBackOnProviderFailure(t *testing.T) {
	completer := &stubCompleter{err: errors.New("status=503")}
	svc, repo := newTestService(completer, stubProfiles{}, Config{})

	reply, err := svc.Send(context.Background(), 0, "Hello")
	require.NoError(t, err)
	require.Equal(t, FallbackMessage, reply.Message)
	require.True(t, reply.Fallback)
	require.Nil(t, reply.Usage)
	require.Equal(t, FallbackMessage, repo.history[0][1].Content)

	completer.err = nil
	completer.reply = Completion{Content: "   "}
	reply, err = svc.Send(context.Background(), 0, "Hello again")
	require.NoError(t, err)
	require.Equal(t, FallbackMessage, reply.Message)
	require.Len(t, repo.history[0], 4)
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	svc, repo := newTestService(&stubCompleter{}, stubProfiles{}, Config{})
	_, err := svc.Send(context.Background(), 0, " \n ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Empty(t, repo.history)
}

func TestSendPropagatesProfileFailure(t *testing.T) {
	storage := apperrors.Wrap(apperrors.CodeStorage, "failed to load profile", errors.New("down"))
	completer := &stubCompleter{}
	svc, _ := newTestService(completer, stubProfiles{err: storage}, Config{})

	_, err := svc.Send(context.Background(), 0, "Hi")
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorage))
	require.Empty(t, completer.prompts)
}

func TestSendTrimsWindowToTokenBudget(t *testing.T) {
	completer := &stubCompleter{reply: Completion{Content: "ok"}}
	// Base prompt is 5 words; each stored message costs 2 words plus overhead 4.
	svc, repo := newTestService(completer, stubProfiles{}, Config{MaxPromptTokens: 5 + 3*6})
	for i := 0; i < 5; i++ {
		repo.history[1] = append(repo.history[1], Message{Role: RoleUser, Content: "older message"})
	}

	_, err := svc.Send(context.Background(), 1, "newest question")
	require.NoError(t, err)
	window := completer.windows[0]
	require.Len(t, window, 3)
	require.Equal(t, "newest question", window[2].Content)
}

func TestSendKeepsLatestMessageOverBudget(t *testing.T) {
	completer := &stubCompleter{reply: Completion{Content: "ok"}}
	svc, repo := newTestService(completer, stubProfiles{}, Config{MaxPromptTokens: 1})
	repo.history[1] = []Message{{Role: RoleUser, Content: "earlier"}}

	_, err := svc.Send(context.Background(), 1, strings.Repeat("word ", 50))
	require.NoError(t, err)
	require.Len(t, completer.windows[0], 1)
}

func TestSendCapsStoredHistory(t *testing.T) {
	svc, repo := newTestService(&stubCompleter{reply: Completion{Content: "ok"}}, stubProfiles{}, Config{HistoryLimit: 4})
	for i := 0; i < 3; i++ {
		_, err := svc.Send(context.Background(), 2, "question")
		require.NoError(t, err)
	}
	require.Len(t, repo.history[2], 4)

	history, err := svc.History(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, history, 4)

	empty, err := svc.History(context.Background(), 99)
	require.NoError(t, err)
	require.NotNil(t, empty)
}

func TestSendPersonalisesPrompt(t *testing.T) {
	completer := &stubCompleter{reply: Completion{Content: "ok"}}
	p := &profile.UserProfile{
		Health:        &profile.HealthProfile{HasRespiratoryConditions: true, SkinConditions: true, FitnessLevel: "moderate"},
		Sensitivities: &profile.EnvironmentalSensitivities{PollutionSensitivity: 5, UVSensitivity: 3, HeatSensitivity: 4, ColdSensitivity: 1},
	}
	svc, _ := newTestService(completer, stubProfiles{p: p}, Config{})

	_, err := svc.Send(context.Background(), 0, "Should I run?")
	require.NoError(t, err)
	require.Equal(t, basePrompt+
		" User has respiratory conditions, skin conditions, and their fitness level is moderate."+
		" User is very sensitive to pollution, very sensitive to heat, consider these sensitivities in your responses.",
		completer.prompts[0])
}

func TestBuildSystemPrompt(t *testing.T) {
	require.Equal(t, basePrompt, BuildSystemPrompt(basePrompt, nil))
	require.Equal(t, basePrompt, BuildSystemPrompt(basePrompt, &profile.UserProfile{}))

	p := &profile.UserProfile{Health: &profile.HealthProfile{Allergies: []string{"pollen"}, CardiovascularConcerns: true}}
	require.Equal(t, basePrompt+" User has allergies, cardiovascular concerns, and their fitness level is unknown.",
		BuildSystemPrompt(basePrompt, p))
}
