// Package api exposes the trading journal over REST/JSON.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/gemini"
)

// maxBodyBytes bounds request bodies; chart images arrive as base64
// data URLs and need room.
const maxBodyBytes = 10 << 20 // 10 MiB

// Server is the HTTP API server.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	store      *database.Store
	ai         gemini.Client
	logger     *zap.Logger
}

// NewServer creates the API server and registers all routes.
func NewServer(cfg config.Server, store *database.Store, ai gemini.Client, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		router: router,
		store:  store,
		ai:     ai,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: http.MaxBytesHandler(router, maxBodyBytes),
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/trades", s.listTrades)
		api.POST("/trades", s.createTrade)
		api.PUT("/trades/:id", s.updateTrade)
		api.DELETE("/trades/:id", s.deleteTrade)

		api.GET("/user/stats", s.userStats)
		api.POST("/user/capital", s.updateCapital)

		api.GET("/stats", s.journalStats)

		api.POST("/ai/summary", s.aiSummary)
		api.POST("/ai/chart-edit", s.aiChartEdit)
	}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("address", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server, letting in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine, mainly for handler tests.
func (s *Server) Router() http.Handler {
	return s.router
}
