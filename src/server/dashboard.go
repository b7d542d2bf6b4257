package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jhchoi91066/system-trading-sub000/src/analytics"
	"github.com/jhchoi91066/system-trading-sub000/src/interfaces"
	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
	"github.com/jhchoi91066/system-trading-sub000/src/utils"
)

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

// StreamController is the slice of the monitor client the server needs:
// forwarding commands upstream and reporting link status.
type StreamController interface {
	Send(payload interface{})
	Status() models.MConnectionStatus
}

type DashboardServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine

	store     interfaces.ITradeStore
	analytics *analytics.AnalyticsFacade
	stream    StreamController
	ring      *utils.NotificationRing

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MDashboardState // Strongly typed and Buffered Queue
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// Local cache
	latestState *models.MDashboardState
	stateMutex  sync.RWMutex

	limiter *rate.Limiter
	httpSrv *http.Server
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(
	cfg *models.MConfig,
	logger *logger.Logger,
	store interfaces.ITradeStore,
	facade *analytics.AnalyticsFacade,
	stream StreamController,
	ring *utils.NotificationRing,
) *DashboardServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &DashboardServer{
		Config:    cfg,
		Logger:    logger,
		engine:    gin.Default(),
		store:     store,
		analytics: facade,
		stream:    stream,
		ring:      ring,
		clients:   make(map[*Client]struct{}),
		// Buffered channel to prevent lock/blocking
		// Queue size of 256 ensures we can handle bursts of updates
		broadcast:  make(chan *models.MDashboardState, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		latestState: &models.MDashboardState{
			Type:       "INITIAL",
			Snapshot:   models.MRealtimeSnapshot{},
			Connection: models.MConnectionStatus{State: models.StateDisconnected},
			Timestamp:  0,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.API.RateLimitRPS), cfg.API.RateLimitBurst),
	}

	// Add CORS Middleware
	s.engine.Use(corsMiddleware())

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	api := s.engine.Group("/api", rateLimitMiddleware(s.limiter))

	api.GET("/health", s.getHealth)
	api.GET("/status", s.getStatus)
	api.GET("/snapshot", s.getSnapshot)
	api.GET("/notifications", s.getNotifications)
	api.GET("/trades", s.getTrades)
	api.POST("/trades", s.postTrades)
	api.GET("/backtest", s.getBacktest)
	api.POST("/backtest", s.postBacktest)
	api.POST("/command", s.postCommand)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting dashboard server on %s", addr)

	go s.handleWebsockets()

	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) Stop() error {
	close(s.done)

	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := len(s.clients)
	timestamp := s.latestState.Timestamp
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   connections,
		"monitor_state": s.stream.Status().State,
		"latest_update": timestamp,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.stream.Status())
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getSnapshot(c *gin.Context) {
	s.stateMutex.RLock()
	snapshot := s.latestState.Snapshot
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, snapshot)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getNotifications(c *gin.Context) {
	limit := queryInt(c, "limit", s.ring.Capacity())

	c.JSON(http.StatusOK, gin.H{
		"notifications": s.ring.Latest(limit),
		"total":         s.ring.Size(),
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getTrades(c *gin.Context) {
	limit := queryInt(c, "limit", 0)

	trades, err := s.store.LoadTrades(limit)
	if err != nil {
		s.Logger.Error("Failed to load trades: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load trades"})
		return
	}
	total, err := s.store.CountTrades()
	if err != nil {
		s.Logger.Error("Failed to count trades: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count trades"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trades": trades,
		"total":  total,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postTrades(c *gin.Context) {
	var trades []models.MTradeRecord
	if err := c.ShouldBindJSON(&trades); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid trade payload: %v", err)})
		return
	}

	if err := analytics.ValidateTrades(trades); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.store.SaveTradesBulk(trades); err != nil {
		s.Logger.Error("Failed to save trades: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save trades"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"saved": len(trades)})
}

// -----------------------------------------------------------------------------

// getBacktest summarizes the stored journal with the configured capital.
func (s *DashboardServer) getBacktest(c *gin.Context) {
	trades, err := s.store.LoadTrades(0)
	if err != nil {
		s.Logger.Error("Failed to load trades: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load trades"})
		return
	}

	summary, err := s.analytics.RunBacktest(s.Config.Analytics.InitialCapital, trades)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":      summary,
		"distribution": s.analytics.ComputeDistribution(trades),
	})
}

// -----------------------------------------------------------------------------

// postBacktest summarizes a caller-supplied trade log without touching the
// journal.
func (s *DashboardServer) postBacktest(c *gin.Context) {
	var req models.MBacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid backtest payload: %v", err)})
		return
	}

	summary, err := s.analytics.RunBacktest(req.InitialCapital, req.Trades)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":      summary,
		"distribution": s.analytics.ComputeDistribution(req.Trades),
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postCommand(c *gin.Context) {
	var cmd models.MClientCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid command payload: %v", err)})
		return
	}
	if cmd.Command == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "command is required"})
		return
	}

	id, err := s.forwardCommand(cmd)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"id": id, "status": "forwarded"})
}
