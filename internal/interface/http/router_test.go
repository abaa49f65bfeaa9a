package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ecosense/internal/domain/auth"
	"github.com/yanqian/ecosense/internal/domain/chat"
	"github.com/yanqian/ecosense/internal/domain/idea"
	"github.com/yanqian/ecosense/internal/domain/poll"
	"github.com/yanqian/ecosense/internal/domain/profile"
	"github.com/yanqian/ecosense/internal/domain/weather"
	"github.com/yanqian/ecosense/internal/infra/config"
	"github.com/yanqian/ecosense/internal/infra/live"
	apperrors "github.com/yanqian/ecosense/pkg/errors"
)

const validToken = "good-token"

type stubWeather struct {
	weather.Service
	hourlyFn  func(ctx context.Context, hours int) (weather.TimeSeries, error)
	currentFn func(ctx context.Context) (weather.CurrentWeather, error)
}

func (s *stubWeather) HourlyForecast(ctx context.Context, hours int) (weather.TimeSeries, error) {
	return s.hourlyFn(ctx, hours)
}

func (s *stubWeather) Current(ctx context.Context) (weather.CurrentWeather, error) {
	return s.currentFn(ctx)
}

type stubProfile struct {
	profile.Service
	gotUserID   int64
	gotUsername string
}

func (s *stubProfile) Get(_ context.Context, userID int64, username string) (profile.Overview, error) {
	s.gotUserID, s.gotUsername = userID, username
	return profile.Overview{ID: userID, Username: username}, nil
}

type stubPoll struct {
	poll.Service
	voteFn func(ctx context.Context, req poll.VoteRequest) error
}

func (s *stubPoll) Vote(ctx context.Context, req poll.VoteRequest) error {
	return s.voteFn(ctx, req)
}

type stubIdea struct {
	idea.Service
	gotAuthor string
}

func (s *stubIdea) Submit(_ context.Context, author, content string) (idea.Submitted, error) {
	s.gotAuthor = author
	return idea.Submitted{Success: true, Idea: idea.Idea{ID: 1, Author: author, Content: content}}, nil
}

type stubChat struct {
	chat.Service
	reply chat.Reply
	err   error
}

func (s *stubChat) Send(context.Context, int64, string) (chat.Reply, error) {
	return s.reply, s.err
}

type stubAuth struct {
	auth.Service
}

func (stubAuth) ValidateToken(_ context.Context, token string) (auth.Claims, error) {
	if token != validToken {
		return auth.Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "invalid token", nil)
	}
	return auth.Claims{UserID: 42, Username: "linh", TokenType: "access"}, nil
}

func (stubAuth) Profile(_ context.Context, userID int64) (auth.UserView, error) {
	return auth.UserView{ID: userID, Username: "linh"}, nil
}

func TestRouter_HourlyForecastPassesHours(t *testing.T) {
	svcs := Services{Weather: &stubWeather{
		hourlyFn: func(_ context.Context, hours int) (weather.TimeSeries, error) {
			require.Equal(t, 6, hours)
			return weather.TimeSeries{Time: []string{"2024-06-01T10:00"}}, nil
		},
	}}

	rec := performRequest(http.MethodGet, "/api/weather/hourly?hours=6", "", "", newRouterUnderTest(t, svcs, config.AuthConfig{}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = performRequest(http.MethodGet, "/api/weather/hourly?hours=six", "", "", newRouterUnderTest(t, svcs, config.AuthConfig{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_input", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_UpstreamFailureMapsToBadGateway(t *testing.T) {
	svcs := Services{Weather: &stubWeather{
		currentFn: func(context.Context) (weather.CurrentWeather, error) {
			return weather.CurrentWeather{}, apperrors.Wrap(apperrors.CodeUpstream, "weather data unavailable", errors.New("timeout"))
		},
	}}

	rec := performRequest(http.MethodGet, "/api/weather/current", "", "", newRouterUnderTest(t, svcs, config.AuthConfig{}))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "upstream_error", body["error"]["code"])
	require.Equal(t, "weather data unavailable", body["error"]["message"])
}

func TestRouter_DemoIdentityWithoutToken(t *testing.T) {
	profiles := &stubProfile{}
	server := newRouterUnderTest(t, Services{Profile: profiles}, config.AuthConfig{DemoUsername: "demo_user"})

	rec := performRequest(http.MethodGet, "/api/user/profile", "", "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(0), profiles.gotUserID)
	require.Equal(t, "demo_user", profiles.gotUsername)

	rec = performRequest(http.MethodGet, "/api/user/profile", "", validToken, server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(42), profiles.gotUserID)
	require.Equal(t, "linh", profiles.gotUsername)
}

func TestRouter_IdentityRejections(t *testing.T) {
	rec := performRequest(http.MethodGet, "/api/user/profile", "", "", newRouterUnderTest(t, Services{Profile: &stubProfile{}}, config.AuthConfig{Required: true}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	server := newRouterUnderTest(t, Services{Profile: &stubProfile{}}, config.AuthConfig{})
	rec = performRequest(http.MethodGet, "/api/user/profile", "", "forged", server)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid_token", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(http.MethodGet, "/api/auth/me", "", "", server)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(http.MethodGet, "/api/auth/me", "", validToken, server)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_VoteUsesCaller(t *testing.T) {
	var got poll.VoteRequest
	polls := &stubPoll{voteFn: func(_ context.Context, req poll.VoteRequest) error {
		got = req
		if req.Voter.Authenticated {
			return apperrors.Wrap(apperrors.CodeAlreadyVoted, "you have already voted on this poll", nil)
		}
		return nil
	}}
	server := newRouterUnderTest(t, Services{Poll: polls}, config.AuthConfig{})

	rec := performRequest(http.MethodPost, "/api/sustainability/vote", `{"pollId":2,"optionIndex":1}`, "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())
	require.Equal(t, int64(2), *got.PollID)
	require.Equal(t, 1, *got.OptionIndex)
	require.False(t, got.Voter.Authenticated)

	rec = performRequest(http.MethodPost, "/api/sustainability/vote", `{"pollId":2,"optionIndex":1}`, validToken, server)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, poll.Voter{UserID: 42, Authenticated: true}, got.Voter)

	rec = performRequest(http.MethodPost, "/api/sustainability/vote", `{"pollId":"x"}`, "", server)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SubmitIdeaAuthor(t *testing.T) {
	ideas := &stubIdea{}
	server := newRouterUnderTest(t, Services{Idea: ideas}, config.AuthConfig{DemoUsername: "demo_user"})

	rec := performRequest(http.MethodPost, "/api/sustainability/ideas/submit", `{"content":"More bike lanes"}`, "", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, ideas.gotAuthor)

	rec = performRequest(http.MethodPost, "/api/sustainability/ideas/submit", `{"content":"More bike lanes"}`, validToken, server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "linh", ideas.gotAuthor)
}

func TestRouter_ChatMessageHidesFallbackFlag(t *testing.T) {
	svcs := Services{Chat: &stubChat{reply: chat.Reply{Message: chat.FallbackMessage, Fallback: true}}}

	rec := performRequest(http.MethodPost, "/api/chat/message", `{"message":"hi"}`, "", newRouterUnderTest(t, svcs, config.AuthConfig{}))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]any{"message": chat.FallbackMessage}, body)
}

func TestRouter_ChatMessageStorageError(t *testing.T) {
	svcs := Services{Chat: &stubChat{err: apperrors.Wrap(apperrors.CodeStorage, "failed to save chat history", errors.New("disk"))}}

	rec := performRequest(http.MethodPost, "/api/chat/message", `{"message":"hi"}`, "", newRouterUnderTest(t, svcs, config.AuthConfig{}))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "storage_error", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_Healthz(t *testing.T) {
	rec := performRequest(http.MethodGet, "/healthz", "", "", newRouterUnderTest(t, Services{}, config.AuthConfig{}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func performRequest(method, path, body, token string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svcs Services, authCfg config.AuthConfig) *http.Server {
	t.Helper()
	if svcs.Auth == nil {
		svcs.Auth = stubAuth{}
	}
	logger := newTestLogger()
	hub := live.NewHub(nil, logger)
	t.Cleanup(hub.Close)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Auth: authCfg,
	}
	return NewRouter(cfg, NewHandler(svcs, logger), hub, logger)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}
