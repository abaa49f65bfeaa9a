package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ecosense/internal/domain/chat"
)

func TestCompleteSendsPromptAndParsesUsage(t *testing.T) {
	var got ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Wear a mask."}}],"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`))
	}))
	defer srv.Close()

	client := NewClient("key", srv.URL, Options{Temperature: 0.7, MaxTokens: 1024})
	out, err := client.Complete(context.Background(), "system", []chat.Message{{Role: chat.RoleUser, Content: "Air today?"}})
	require.NoError(t, err)
	require.Equal(t, "Wear a mask.", out.Content)
	require.Equal(t, 15, out.Usage.TotalTokens)

	require.Equal(t, defaultModel, got.Model)
	require.Equal(t, 1024, got.MaxTokens)
	require.Equal(t, []Message{{Role: "system", Content: "system"}, {Role: "user", Content: "Air today?"}}, got.Messages)
}

func TestCompleteReportsProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient("key", srv.URL, Options{}).Complete(context.Background(), "system", nil)
	require.ErrorContains(t, err, "status=429")

	_, err = NewClient("", srv.URL, Options{}).Complete(context.Background(), "system", nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient("key", srv.URL, Options{}).Complete(context.Background(), "system", nil)
	require.Error(t, err)
}
