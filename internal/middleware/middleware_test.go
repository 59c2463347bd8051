package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/octobees/engagesphere/api/internal/config"
)

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggingMiddleware(t *testing.T) {
	buf := &bytes.Buffer{}
	base := zerolog.New(buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/customers?page=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")

	err := Logging(base)(func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("inside handler")
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	entries := decodeLogLines(t, buf)
	if len(entries) != 2 {
		t.Fatalf("expected handler and request lines, got %d", len(entries))
	}
	if entries[0]["message"] != "inside handler" || entries[0]["request_id"] != "rid-123" {
		t.Fatalf("expected request logger in context, got %+v", entries[0])
	}
	last := entries[1]
	if last["request_id"] != "rid-123" || last["method"] != "GET" || last["path"] != "/customers" || last["query"] != "page=2" {
		t.Fatalf("unexpected request line: %+v", last)
	}
	if last["status"] != float64(http.StatusOK) || last["level"] != "info" {
		t.Fatalf("unexpected status or level: %+v", last)
	}

	// ensure errors are propagated and logged
	buf.Reset()
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-456")
	expected := errors.New("boom")
	err = Logging(base)(func(c echo.Context) error {
		return expected
	})(c)
	if !errors.Is(err, expected) {
		t.Fatalf("expected error to bubble up")
	}
	entries = decodeLogLines(t, buf)
	if len(entries) != 1 || entries[0]["request_id"] != "rid-456" || entries[0]["level"] != "error" {
		t.Fatalf("expected error entry with new request id, got %+v", entries)
	}
}

func TestLoggingMiddleware_ClientErrorsWarn(t *testing.T) {
	buf := &bytes.Buffer{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/customers?page=0", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = Logging(zerolog.New(buf))(func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad"})
	})(c)

	entries := decodeLogLines(t, buf)
	if len(entries) != 1 || entries[0]["level"] != "warn" || entries[0]["status"] != float64(http.StatusBadRequest) {
		t.Fatalf("expected warn entry for 400, got %+v", entries)
	}
}

func TestRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 1, Interval: time.Second}
	mw := RateLimiter(cfg)

	e := echo.New()
	nextCalls := 0
	next := func(c echo.Context) error {
		nextCalls++
		return c.NoContent(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = mw(next)(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/customers", nil)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	_ = mw(next)(c2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request rejected, got %d", rec2.Code)
	}
	if rec2.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After of one second, got %q", rec2.Header().Get("Retry-After"))
	}
	var body map[string]string
	if err := json.Unmarshal(rec2.Body.Bytes(), &body); err != nil || body["error"] != "rate limit exceeded" {
		t.Fatalf("unexpected rejection body: %s", rec2.Body.String())
	}
	if nextCalls != 1 {
		t.Fatalf("expected rejected request not to reach handler, calls=%d", nextCalls)
	}

	// zero config should behave as passthrough
	mw = RateLimiter(config.RateLimitConfig{})
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/customers", nil), rec)
		_ = mw(next)(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected passthrough when limiter disabled")
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	t.Run("reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "incoming")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) != "incoming" {
				t.Fatalf("expected request id to be stored")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") != "incoming" {
			t.Fatalf("expected response header to propagate request id")
		}
	})

	t.Run("generate when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			rid := RequestIDFromContext(c)
			if rid == "" {
				t.Fatalf("expected generated request id")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("expected response header set")
		}
	})

	t.Run("replace unsafe incoming header", func(t *testing.T) {
		for _, incoming := range []string{"has space", strings.Repeat("a", 129), "tab\tinside"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", incoming)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := handler(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := rec.Header().Get("X-Request-ID")
			if got == incoming || got == "" {
				t.Fatalf("expected generated id for %q, got %q", incoming, got)
			}
		}
	})

	t.Run("missing id reads as empty", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if RequestIDFromContext(c) != "" {
			t.Fatalf("expected empty request id")
		}
	})
}
