package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/ecosense/internal/infra/config"
)

// withRetry replays idempotent GET requests that fail with a transient gateway status.
// WebSocket upgrades and excluded paths pass through untouched.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	exclusions := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		exclusions[path] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, skip := exclusions[r.URL.Path]
		if skip || r.Method != http.MethodGet || isUpgrade(r) {
			handler.ServeHTTP(w, r)
			return
		}

		for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
			if attempt > 1 {
				delay := cfg.BaseBackoff * time.Duration(1<<(attempt-2))
				if delay > 0 {
					select {
					case <-time.After(delay):
					case <-r.Context().Done():
						return
					}
				}
			}

			current := &retryAttempt{number: attempt}
			recorder := newRetryResponseRecorder(w)
			handler.ServeHTTP(recorder, r.Clone(context.WithValue(r.Context(), retryAttemptKey{}, current)))
			if !recorder.retryable() || attempt == cfg.MaxAttempts {
				recorder.Commit()
				current.finish()
				return
			}

			logger.Warn("transient failure, retrying request", "path", r.URL.Path, "status", recorder.statusCode, "attempt", attempt)
		}
	})
}

type retryAttemptKey struct{}

// retryAttempt tracks one pass of a retried request. Observers registered on it
// run only if the pass is the one sent to the client.
type retryAttempt struct {
	number    int
	observers []func()
}

func attemptOf(ctx context.Context) *retryAttempt {
	a, _ := ctx.Value(retryAttemptKey{}).(*retryAttempt)
	return a
}

// replayed reports whether ctx belongs to a second or later pass of a retried request.
func replayed(ctx context.Context) bool {
	a := attemptOf(ctx)
	return a != nil && a.number > 1
}

// observeFinal runs fn now, or defers it until the retry loop commits the pass of ctx.
func observeFinal(ctx context.Context, fn func()) {
	if a := attemptOf(ctx); a != nil {
		a.observers = append(a.observers, fn)
		return
	}
	fn()
}

func (a *retryAttempt) finish() {
	for _, fn := range a.observers {
		fn()
	}
}

func isUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

type retryResponseRecorder struct {
	dst        http.ResponseWriter
	header     http.Header
	body       bytes.Buffer
	statusCode int
	wroteHead  bool
}

func newRetryResponseRecorder(dst http.ResponseWriter) *retryResponseRecorder {
	return &retryResponseRecorder{
		dst:        dst,
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

func (r *retryResponseRecorder) Header() http.Header {
	return r.header
}

func (r *retryResponseRecorder) WriteHeader(status int) {
	if r.wroteHead {
		return
	}
	r.statusCode = status
	r.wroteHead = true
}

func (r *retryResponseRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func (r *retryResponseRecorder) Commit() {
	dstHeader := r.dst.Header()
	for k := range dstHeader {
		dstHeader.Del(k)
	}
	for k, values := range r.header {
		dstHeader[k] = append([]string(nil), values...)
	}
	r.dst.WriteHeader(r.statusCode)
	if r.body.Len() > 0 {
		_, _ = r.dst.Write(r.body.Bytes())
	}
}

func (r *retryResponseRecorder) retryable() bool {
	switch r.statusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func (r *retryResponseRecorder) Flush() {}
