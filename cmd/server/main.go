package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/skylive/airportal/internal/airports"
	"github.com/skylive/airportal/internal/api"
	"github.com/skylive/airportal/internal/config"
	"github.com/skylive/airportal/internal/feeds"
	"github.com/skylive/airportal/internal/snapshot"
	"github.com/skylive/airportal/internal/weather"
	"github.com/skylive/airportal/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	seedPath := flag.String("seed", "", "Path to airport seed JSON (overrides storage.seed_path)")
	flag.Parse()

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting airportal server",
		logger.String("version", Version),
		logger.String("station", cfg.Station.AirportCode),
	)

	// Airport model store
	store, err := airports.NewStore(cfg.Storage.SQLitePath, log)
	if err != nil {
		log.Error("Failed to open airport store", logger.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	seed := cfg.Storage.SeedPath
	if *seedPath != "" {
		seed = *seedPath
	}
	if seed != "" {
		if err := store.SeedFromJSON(seed); err != nil {
			log.Error("Failed to import airport seed", logger.Error(err), logger.String("path", seed))
			os.Exit(1)
		}
	}

	// Weather service with background refresh for the station airport
	weatherService := weather.NewService(cfg.Weather, cfg.Station.AirportCode, log)
	if err := weatherService.Start(); err != nil {
		log.Error("Failed to start weather service", logger.Error(err))
		os.Exit(1)
	}

	// Live feed client and snapshot orchestration
	feedClient := feeds.NewClient(cfg.Live.Feeds, log)
	snapshotService := snapshot.NewService(store, feedClient, weatherService, log)

	router := api.NewRouter(store, snapshotService, weatherService, cfg, log)

	// One HTTP server per configured port, all sharing the router
	var servers []*http.Server
	allPorts := append([]int{cfg.Server.Port}, cfg.Server.AdditionalPorts...)

	log.Info("Configured listener ports", logger.Any("ports", allPorts))

	for _, port := range allPorts {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, port)
		server := &http.Server{
			Addr:         addr,
			Handler:      router.Routes(),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
		}
		servers = append(servers, server)

		go func(s *http.Server) {
			log.Info("Starting HTTP server", logger.String("addr", s.Addr))
			if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("HTTP server error on startup", logger.String("addr", s.Addr), logger.Error(err))
			}
		}(server)
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")

	log.Info("Stopping weather service...")
	weatherService.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(srv *http.Server) {
			defer wg.Done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server shutdown error", logger.String("addr", srv.Addr), logger.Error(err))
			}
		}(s)
	}
	wg.Wait()

	log.Info("Server fully stopped")
}
