package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"balalaika/internal/domain"
	"balalaika/internal/log"
	"balalaika/internal/services"
	"balalaika/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// StreamHandler pushes store revisions and the caller's session state as
// server-sent events. Clients refetch /api/v1/catalog on "catalog".
type StreamHandler struct {
	Store     *store.Store
	Auth      *services.AuthService
	Heartbeat time.Duration
	// Done ends every open stream, e.g. on shutdown.
	Done <-chan struct{}
}

type catalogEvent struct {
	Revision uint64 `json:"revision"`
	Loaded   bool   `json:"loaded"`
}

type sessionEvent struct {
	SignedIn bool   `json:"signedIn"`
	Name     string `json:"name,omitempty"`
}

// writeEvent frames one named event with a JSON payload.
func writeEvent(w *bufio.Writer, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}

func sessionPayload(s domain.Session) sessionEvent {
	u, ok := domain.SignedIn(s)
	return sessionEvent{SignedIn: ok, Name: u.Name}
}

// GET /api/v1/stream
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	revisions := h.Store.Subscribe()
	sessions := h.Auth.Watch(c.Cookies("sid"))
	beat := h.Heartbeat
	if beat <= 0 {
		beat = 15 * time.Second
	}
	done := h.Done
	log.Info(c, "stream.open", nil)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer revisions.Close()
		defer sessions.Close()
		ticker := time.NewTicker(beat)
		defer ticker.Stop()

		for {
			var err error
			select {
			case <-done:
				return
			case _, ok := <-revisions.C():
				if !ok {
					return
				}
				st := h.Store.State()
				err = writeEvent(w, "catalog", catalogEvent{Revision: st.Revision, Loaded: st.Loaded})
			case s, ok := <-sessions.C():
				if !ok {
					return
				}
				err = writeEvent(w, "session", sessionPayload(s))
			case <-ticker.C:
				if _, err = fmt.Fprint(w, ": ping\n\n"); err == nil {
					err = w.Flush()
				}
			}
			// A failed flush means the client went away.
			if err != nil {
				return
			}
		}
	}))
	return nil
}
