package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"expediter/internal/api"
	"expediter/internal/config"
	"expediter/internal/kds"
	"expediter/internal/models"
	"expediter/internal/monitoring"
	"expediter/internal/notify"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
	demo        = flag.Bool("demo", false, "Seed a few demo orders on startup")
)

func main() {
	flag.Parse()

	// Initialize context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	// Initialize engine and its sinks
	engine := kds.New(cfg)

	hub := notify.NewHub()
	notifier := notify.NewNotifier(cfg, hub)
	engine.SetEvents(notifier)
	defer notifier.Close()

	collector := monitoring.NewCollector()
	engine.SetMetrics(collector)

	if *demo {
		seedDemoOrders(engine)
	}

	// Initialize API server
	srv := api.NewServer(cfg, engine, notifier, hub)

	// Wake snoozed orders as their deadlines pass
	go runSnoozeTicker(ctx, cfg, engine, notifier)

	// Start metrics server
	go startMetricsServer(cfg.Server.MetricsPort, collector)

	// Start API server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}

		cancel() // Cancel main context
	}()

	// Start server
	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

// runSnoozeTicker sweeps expired snoozes once per configured tick and
// announces woken orders to the displays.
func runSnoozeTicker(ctx context.Context, cfg *config.Config, engine *kds.Engine, notifier *notify.Notifier) {
	ticker := time.NewTicker(time.Duration(cfg.Snooze.TickSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			notifier.OrdersWoken(engine.WakeExpired())
		}
	}
}

func startMetricsServer(port int, collector *monitoring.Collector) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{})))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}

// seedDemoOrders puts a few tickets on the board so a fresh install shows a
// working display.
func seedDemoOrders(engine *kds.Engine) {
	drafts := []models.OrderDraft{
		{
			OrderType:   models.OrderDineIn,
			TableNumber: "12",
			Items: []models.OrderItem{
				{Name: "Burger", Variant: "medium", Quantity: 2, StationID: "kitchen"},
				{Name: "Old Fashioned", Quantity: 1, StationID: "bar"},
			},
		},
		{
			OrderType:    models.OrderPickup,
			CustomerName: "Dana",
			Items: []models.OrderItem{
				{Name: "Caesar Salad", Quantity: 1, StationID: "kitchen"},
			},
		},
		{
			OrderType:   models.OrderDineIn,
			TableNumber: "4",
			IsPriority:  true,
			Items: []models.OrderItem{
				{Name: "Burger", Variant: "medium", Quantity: 1, StationID: "kitchen"},
				{Name: "Cheesecake", Quantity: 1, StationID: "dessert"},
			},
		},
	}

	for _, draft := range drafts {
		if _, err := engine.CreateOrder(draft); err != nil {
			log.Printf("demo seed: %v", err)
		}
	}
	log.Printf("Seeded %d demo orders", len(drafts))
}
