package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"station-dashboard/internal/alerts"
	"station-dashboard/internal/api"
	"station-dashboard/internal/config"
	"station-dashboard/internal/kafka"
	"station-dashboard/internal/logging"
	"station-dashboard/internal/providers"
	"station-dashboard/internal/simulation"
	"station-dashboard/internal/stream"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Close()
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Build the floor and the loop that owns it
	src := simulation.NewSource(cfg.Simulation.Seed)
	stations := simulation.GenerateStations(src)
	datasets := simulation.GenerateDatasets(src)
	loop := simulation.NewLoop(stations, src, cfg.Simulation.TickInterval, logger)

	// Alert channels
	var channels []alerts.Provider
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.Kafka.Broker, cfg.Kafka.Topic, logger)
		defer producer.Close()
		channels = append(channels, producer)
	}
	if cfg.TelegramEnabled() {
		tg, err := providers.NewTelegram(cfg, logger)
		if err != nil {
			logger.Errorf("Telegram alerts disabled: %v", err)
		} else {
			channels = append(channels, tg)
		}
	}
	alertSvc := alerts.New(logger, cfg, channels...)
	hub := stream.NewHub(cfg.Stream.MaxConnections, logger)

	loop.Subscribe(alertSvc.Observe)
	loop.Subscribe(hub.Observe)

	var wg sync.WaitGroup
	alertSvc.Start(&wg)
	loop.Start(&wg)

	// Start API server
	handler := api.NewHandler(loop, datasets, hub, logger)
	server := &http.Server{
		Addr:              cfg.API.Port,
		Handler:           api.NewRouter(logger, cfg, handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Infof("API started on %s%s", cfg.API.Port, cfg.API.BasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("API run failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	loop.Stop()
	alertSvc.Stop()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("API shutdown failed: %v", err)
	}
	wg.Wait()
	logger.Infof("Service stopped")
}
