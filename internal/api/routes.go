package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"ticket-triage/backend/internal/pipeline"
	"ticket-triage/backend/internal/store"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	ModelsDir      string
	AllowedOrigins []string
	SilentDB       bool
}

// Server wires HTTP handlers with persistence and the loaded pipeline.
type Server struct {
	db             *store.Database
	pipe           *pipeline.Pipeline
	notifier       *TicketNotifier
	allowedOrigins []string
}

// NewServer constructs the API server: opens the ticket store, loads both
// model artifacts, and seeds the identifier counter from persisted history.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	pipe, err := pipeline.Load(cfg.ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}

	maxNumber, err := db.MaxTicketNumber()
	if err != nil {
		return nil, fmt.Errorf("seed ticket counter: %w", err)
	}
	pipe.SeedCounter(maxNumber)
	logrus.WithFields(logrus.Fields{
		"models_dir": cfg.ModelsDir,
		"max_number": maxNumber,
		"categories": pipe.Categories(),
		"priorities": pipe.Priorities(),
	}).Info("pipeline loaded")

	return &Server{
		db:             db,
		pipe:           pipe,
		notifier:       NewTicketNotifier(),
		allowedOrigins: cfg.AllowedOrigins,
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	api := r.Group("/api")
	{
		api.POST("/tickets", s.handleCreateTicket)
		api.POST("/tickets/batch", s.handleBatchUpload)
		api.GET("/tickets", s.handleListTickets)
		api.GET("/tickets/export", s.handleExport)
		api.GET("/tickets/stream", s.handleStream)
		api.GET("/tickets/:ticket_id", s.handleGetTicket)
		api.PATCH("/tickets/:ticket_id/status", s.handleUpdateStatus)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":             s.pipe.Categories(),
		"priorities":             s.pipe.Priorities(),
		"min_description_length": pipeline.MinDescriptionLength,
		"max_description_length": pipeline.MaxDescriptionLength,
		"models":                 s.pipe.Models(),
	})
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *Server) handleStream(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := s.notifier.Register(conn)
	defer s.notifier.Unregister(client)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
