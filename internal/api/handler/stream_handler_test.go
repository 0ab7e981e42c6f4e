package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestUpdateLine(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	got := updateLine(3, ts)
	want := "Update #3 at 2024-05-01T12:00:00Z"
	if got != want {
		t.Fatalf("updateLine = %q, want %q", got, want)
	}
}

func TestStreamHandler_Events(t *testing.T) {
	e := echo.New()
	h := NewStreamHandler(5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	done := make(chan error, 1)
	go func() { done <- h.Events(c) }()

	time.Sleep(40 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Events returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Events did not return after context cancel")
	}

	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "data: Update #1 at ") {
		t.Fatalf("missing first update in body: %q", body)
	}
	if !strings.Contains(body, "data: Update #2 at ") {
		t.Fatalf("counter did not advance per tick: %q", body)
	}
}

func TestNewStreamHandler_DefaultsInterval(t *testing.T) {
	h := NewStreamHandler(0, zerolog.Nop())
	if h.interval != 2*time.Second {
		t.Fatalf("expected 2s default interval, got %v", h.interval)
	}
}
