// Package web serves the clock's status page, live framebuffer and
// connectivity badge over HTTP.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sweeney/wifi-clock/internal/status"
)

// FrameSource exposes the current framebuffer for the /frame.png endpoint.
type FrameSource interface {
	EncodePNG(w io.Writer) error
}

// Server exposes the status endpoints via fiber.
type Server struct {
	app     *fiber.App
	tracker *status.Tracker
	frames  FrameSource
	redraw  *atomic.Bool
}

// New creates a Server reading state from the tracker. A POST to /redraw
// sets the redraw flag, which the main loop consumes on its next frame.
func New(tracker *status.Tracker, frames FrameSource, redraw *atomic.Bool) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		tracker: tracker,
		frames:  frames,
		redraw:  redraw,
	}

	s.app.Get("/", s.handleIndex)
	s.app.Get("/index.json", s.handleJSON)
	s.app.Get("/frame.png", s.handleFrame)
	s.app.Get("/badge.svg", s.handleBadge)
	s.app.Post("/redraw", s.handleRedraw)

	return s
}

// Listen starts serving on addr. It blocks until shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

// App returns the underlying fiber app. Used by handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	snap := s.tracker.Snapshot()
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(renderHTML(snap))
}

func (s *Server) handleJSON(c *fiber.Ctx) error {
	snap := s.tracker.Snapshot()
	body, err := json.Marshal(snap)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("marshal failed")
	}
	c.Set("Content-Type", "application/json")
	return c.Send(body)
}

func (s *Server) handleFrame(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := s.frames.EncodePNG(&buf); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("encode failed")
	}
	c.Set("Content-Type", "image/png")
	c.Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	return c.Send(buf.Bytes())
}

func (s *Server) handleBadge(c *fiber.Ctx) error {
	snap := s.tracker.Snapshot()
	c.Set("Content-Type", "image/svg+xml")
	c.Set("Cache-Control", "no-cache")
	return c.Send(renderBadge(snap.WifiState, snap.Address))
}

func (s *Server) handleRedraw(c *fiber.Ctx) error {
	s.redraw.Store(true)
	return c.SendString("redraw scheduled")
}
