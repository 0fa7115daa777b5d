package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Saurabh-Shisode/proctoring-v0/pkg/hub"
)

// handleStatus returns the current monitoring status
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return c.JSON(s.status)
}

// handleGetEvents returns recent display events
func (s *Server) handleGetEvents(c *fiber.Ctx) error {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()
	return c.JSON(s.events)
}

// handleExport returns the session document for download
func (s *Server) handleExport(c *fiber.Ctx) error {
	if s.OnExport == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "export not configured",
		})
	}

	data, err := s.OnExport()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", `attachment; filename="session_log.json"`)
	return c.Send(data)
}

// handleStatusWS streams status updates; sends the current status on connect
func (s *Server) handleStatusWS(conn *websocket.Conn) {
	s.statusMu.RLock()
	conn.WriteJSON(s.status)
	s.statusMu.RUnlock()

	hub.NewClient(s.statusHub, conn).Run()
}

// handleEventsWS streams display events; replays the buffer on connect
func (s *Server) handleEventsWS(conn *websocket.Conn) {
	s.eventsMu.RLock()
	for _, e := range s.events {
		conn.WriteJSON(e)
	}
	s.eventsMu.RUnlock()

	hub.NewClient(s.eventHub, conn).Run()
}

// handleFramesWS streams binary webcam frames
func (s *Server) handleFramesWS(conn *websocket.Conn) {
	hub.NewClient(s.frameHub, conn).Run()
}
