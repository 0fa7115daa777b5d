// Package web provides a real-time dashboard for the proctoring service
package web

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/Saurabh-Shisode/proctoring-v0/internal/log"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/hub"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/session"
)

// Status represents the current monitoring state for the dashboard
type Status struct {
	Monitoring          bool   `json:"monitoring"`
	SessionID           string `json:"session_id"`
	Attention           string `json:"attention"` // unknown, focused, distracted
	Person              string `json:"person"`    // unknown, authorized, unauthorized
	Presence            string `json:"presence"`  // none, single, multiple
	FaceCount           int    `json:"face_count"`
	TotalViolations     int    `json:"total_violations"`
	AttentionViolations int    `json:"attention_violations"`
}

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	port string

	// State
	status   Status
	statusMu sync.RWMutex

	// Event buffer (last 500 entries)
	events   []session.Event
	eventsMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	eventHub  *hub.Hub
	frameHub  *hub.Hub

	// Export callback, returns the current session document
	OnExport func() ([]byte, error)
}

// NewServer creates a new web dashboard server
func NewServer(port string) *Server {
	s := &Server{
		port:      port,
		events:    make([]session.Event, 0, 500),
		statusHub: hub.New("status"),
		eventHub:  hub.New("events"),
		frameHub:  hub.New("frames"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Proctor Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/events", s.handleGetEvents)
	api.Get("/export", s.handleExport)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// Start starts the web server
func (s *Server) Start() error {
	log.Info("web dashboard listening", "url", "http://localhost:"+s.port)

	// Start all hubs
	go s.statusHub.Run()
	go s.eventHub.Run()
	go s.frameHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()
}

// UpdateStatus updates the monitoring status and broadcasts to clients
func (s *Server) UpdateStatus(update func(*Status)) {
	s.statusMu.Lock()
	update(&s.status)
	status := s.status // Copy for broadcast
	s.statusMu.Unlock()

	s.statusHub.BroadcastJSON(status)
}

// PublishEvent buffers a display event and broadcasts it to clients.
// Wired as the session log's event callback.
func (s *Server) PublishEvent(e session.Event) {
	s.eventsMu.Lock()
	s.events = append(s.events, e)
	if len(s.events) > 500 {
		s.events = s.events[1:]
	}
	s.eventsMu.Unlock()

	s.eventHub.BroadcastJSON(e)
}

// RecordViolation updates the violation counters on the dashboard.
// Wired as the session log's violation callback.
func (s *Server) RecordViolation(total, attention int) {
	s.UpdateStatus(func(st *Status) {
		st.TotalViolations = total
		st.AttentionViolations = attention
	})
}

// PublishFrame sends a webcam frame to all connected clients
func (s *Server) PublishFrame(jpegData []byte) {
	s.frameHub.BroadcastBinary(jpegData)
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
