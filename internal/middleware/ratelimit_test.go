package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/groupfund/groupfund/internal/cache"
	"github.com/groupfund/groupfund/internal/metrics"
)

type fakeLimiter struct {
	mu      sync.Mutex
	allowed bool
	err     error
	calls   []string
}

func (f *fakeLimiter) CheckWriteRateLimit(_ context.Context, ip string, _, burst int) (*cache.RateLimitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ip)
	if f.err != nil {
		return &cache.RateLimitResult{Allowed: true, Remaining: int64(burst)}, f.err
	}
	return &cache.RateLimitResult{
		Allowed:    f.allowed,
		ResetAt:    time.Now().Add(time.Second),
		RetryAfter: 2 * time.Second,
	}, nil
}

func newRateLimitedHandler(limiter *fakeLimiter, recorder metrics.Recorder) http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mw := RateLimitWrite(RateLimitConfig{
		Logger:  logger,
		Limiter: limiter,
		Metrics: recorder,
		Enabled: true,
		RPS:     10,
		Burst:   20,
	})
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimitWrite_ReadsPassThrough(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	h := newRateLimitedHandler(limiter, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/deposits", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if len(limiter.calls) != 0 {
		t.Errorf("expected no limiter calls for GET, got %d", len(limiter.calls))
	}
}

func TestRateLimitWrite_Rejects(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	recorder := metrics.NewInMemory()
	h := newRateLimitedHandler(limiter, recorder)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/deposits/01HX", bytes.NewReader([]byte(`{}`)))
	req.RemoteAddr = "203.0.113.7:5123"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "2" {
		t.Errorf("expected Retry-After 2, got %q", rec.Header().Get("Retry-After"))
	}
	if limiter.calls[0] != "203.0.113.7" {
		t.Errorf("expected limiter keyed by IP without port, got %q", limiter.calls[0])
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["code"] != "RATE_LIMITED" {
		t.Errorf("expected RATE_LIMITED, got %q", body["code"])
	}

	if got := recorder.Snapshot().RateLimited["PATCH /api/v1/deposits"]; got != 1 {
		t.Errorf("expected one rate limited PATCH, got %d", got)
	}
}

func TestRateLimitWrite_Allows(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	h := newRateLimitedHandler(limiter, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/expenses", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "20" {
		t.Errorf("expected X-RateLimit-Limit 20, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitWrite_FailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	h := newRateLimitedHandler(limiter, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/expenses/1", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected request allowed when limiter fails, got %d", rec.Code)
	}
}

func TestRateLimitWrite_Disabled(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	mw := RateLimitWrite(RateLimitConfig{Limiter: limiter, Enabled: false})
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/deposits", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodPost, "/api/v1/deposits", "POST /api/v1/deposits"},
		{http.MethodDelete, "/api/v1/expenses/01HXYZ", "DELETE /api/v1/expenses"},
		{http.MethodPost, "/", "POST /"},
	}
	for _, tt := range tests {
		got := routeLabel(httptest.NewRequest(tt.method, tt.path, nil))
		if got != tt.want {
			t.Errorf("routeLabel(%s %s) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := RequestID(Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"panic_recovered"`)) {
		t.Errorf("expected panic to be logged, got %s", buf.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("INTERNAL_ERROR")) {
		t.Errorf("expected JSON error body, got %s", rec.Body.String())
	}
}
