package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"expediter/internal/config"
	"expediter/internal/kds"
	"expediter/internal/models"
	"expediter/internal/notify"
)

// Server represents the HTTP surface of the expediter: lifecycle commands,
// board queries, and the display websocket.
type Server struct {
	Router   *gin.Engine
	engine   *kds.Engine
	notifier *notify.Notifier
	hub      *notify.Hub
	cfg      *config.Config
}

// NewServer creates the API server and wires its routes.
func NewServer(cfg *config.Config, engine *kds.Engine, notifier *notify.Notifier, hub *notify.Hub) *Server {
	router := gin.Default()

	s := &Server{
		Router:   router,
		engine:   engine,
		notifier: notifier,
		hub:      hub,
		cfg:      cfg,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "expediter API is running"})
	})

	v1 := s.Router.Group("/api/v1")
	{
		// Order lifecycle
		v1.POST("/orders", s.CreateOrder)
		v1.GET("/orders", s.ListOrders)
		v1.GET("/columns", s.GetColumns)
		v1.POST("/orders/:id/advance", s.AdvanceStation)
		v1.POST("/orders/:id/refire", s.Refire)
		v1.POST("/orders/:id/modify", s.MarkModified)
		v1.POST("/orders/:id/snooze", s.Snooze)
		v1.POST("/orders/:id/wake", s.WakeUp)

		// Completed orders
		v1.GET("/completed", s.ListCompleted)
		v1.POST("/completed/:id/recall", s.Recall)

		// 86 board
		v1.GET("/stock", s.GetStock)
		v1.POST("/stock/:itemId", s.UpdateStock)

		// Aggregated views
		v1.GET("/batches", s.GetBatches)
		v1.POST("/batches/dismiss", s.DismissBatch)
		v1.GET("/allday", s.GetAllDay)

		// Display support
		v1.GET("/stations", s.GetStations)
		v1.GET("/toasts", s.GetToasts)
		v1.POST("/toasts/:id/dismiss", s.DismissToast)
	}

	s.Router.GET("/ws", s.hub.HandleWS)
}

// respondResult maps a command result onto the wire. Stale commands against
// vanished or already-moved tickets are routine on a shared board, so every
// outcome is a 200; the caller can inspect the result field if it cares.
func respondResult(c *gin.Context, result kds.Result) {
	c.JSON(http.StatusOK, gin.H{"result": result.String()})
}

// Order lifecycle handlers

func (s *Server) CreateOrder(c *gin.Context) {
	var draft models.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.engine.CreateOrder(draft)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (s *Server) ListOrders(c *gin.Context) {
	station := c.Query("station")
	c.JSON(http.StatusOK, s.engine.ListOrders(station))
}

func (s *Server) GetColumns(c *gin.Context) {
	station := c.Query("station")
	c.JSON(http.StatusOK, s.engine.Columns(station))
}

func (s *Server) AdvanceStation(c *gin.Context) {
	var req struct {
		StationID string               `json:"stationId"`
		Status    models.StationStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	respondResult(c, s.engine.AdvanceStation(c.Param("id"), req.StationID, req.Status))
}

func (s *Server) Refire(c *gin.Context) {
	var req struct {
		ItemID string `json:"itemId"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	respondResult(c, s.engine.Refire(c.Param("id"), req.ItemID, req.Reason))
}

func (s *Server) MarkModified(c *gin.Context) {
	var change kds.Modification
	if err := c.ShouldBindJSON(&change); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	respondResult(c, s.engine.MarkModified(c.Param("id"), change))
}

func (s *Server) Snooze(c *gin.Context) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	respondResult(c, s.engine.Snooze(c.Param("id"), time.Duration(req.Minutes)*time.Minute))
}

func (s *Server) WakeUp(c *gin.Context) {
	respondResult(c, s.engine.WakeUp(c.Param("id")))
}

// Completed order handlers

func (s *Server) ListCompleted(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.ListCompleted())
}

func (s *Server) Recall(c *gin.Context) {
	respondResult(c, s.engine.Recall(c.Param("id")))
}

// 86 board handlers

func (s *Server) GetStock(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.StockStatuses())
}

func (s *Server) UpdateStock(c *gin.Context) {
	var req struct {
		Status    models.StockLevel `json:"status"`
		Count     int               `json:"count"`
		UpdatedBy string            `json:"updatedBy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	respondResult(c, s.engine.UpdateStock(c.Param("itemId"), req.Status, req.Count, req.UpdatedBy))
}

// Aggregated view handlers

func (s *Server) GetBatches(c *gin.Context) {
	station := c.Query("station")
	c.JSON(http.StatusOK, s.engine.BatchSuggestions(station))
}

func (s *Server) DismissBatch(c *gin.Context) {
	var key models.BatchKey
	if err := c.ShouldBindJSON(&key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.engine.DismissBatch(key)
	respondResult(c, kds.Applied)
}

func (s *Server) GetAllDay(c *gin.Context) {
	station := c.Query("station")
	c.JSON(http.StatusOK, s.engine.AllDay(station))
}

// Display support handlers

func (s *Server) GetStations(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg.Stations)
}

func (s *Server) GetToasts(c *gin.Context) {
	c.JSON(http.StatusOK, s.notifier.Active())
}

func (s *Server) DismissToast(c *gin.Context) {
	if s.notifier.Dismiss(c.Param("id")) {
		respondResult(c, kds.Applied)
		return
	}
	respondResult(c, kds.NotFound)
}
