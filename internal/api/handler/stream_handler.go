package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lrms/access-portal/internal/api/metrics"
)

// StreamHandler serves the dashboard's live update feed: a counter line
// every interval, over SSE or WebSocket. Each connection gets its own
// counter starting at 1.
type StreamHandler struct {
	interval time.Duration
	log      zerolog.Logger

	upgrader websocket.Upgrader
}

func NewStreamHandler(interval time.Duration, log zerolog.Logger) *StreamHandler {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &StreamHandler{
		interval: interval,
		log:      log,
		upgrader: websocket.Upgrader{
			// The demo feed is public, same as its CORS policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func updateLine(n int, ts time.Time) string {
	return fmt.Sprintf("Update #%d at %s", n, ts.UTC().Format(time.RFC3339))
}

// Events streams server-sent events until the client disconnects.
//
// @Summary      Live update stream (SSE)
// @Tags         stream
// @Produce      text/event-stream
// @Success      200
// @Router       /stream [get]
func (h *StreamHandler) Events(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	metrics.StreamClients.WithLabelValues("sse").Inc()
	defer metrics.StreamClients.WithLabelValues("sse").Dec()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-c.Request().Context().Done():
			h.log.Debug().Int("updates", n).Msg("sse client disconnected")
			return nil
		case t := <-ticker.C:
			n++
			if _, err := fmt.Fprintf(w, "data: %s\n\n", updateLine(n, t)); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

// EventsWS is the WebSocket rendition of the same feed.
//
// @Summary      Live update stream (WebSocket)
// @Tags         stream
// @Success      101
// @Router       /stream/ws [get]
func (h *StreamHandler) EventsWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	metrics.StreamClients.WithLabelValues("websocket").Inc()
	defer metrics.StreamClients.WithLabelValues("websocket").Dec()

	// Drain the read side to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-closed:
			h.log.Debug().Int("updates", n).Msg("websocket client disconnected")
			return nil
		case <-c.Request().Context().Done():
			return nil
		case t := <-ticker.C:
			n++
			if err := conn.WriteMessage(websocket.TextMessage, []byte(updateLine(n, t))); err != nil {
				return nil
			}
		}
	}
}
