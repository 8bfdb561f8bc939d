package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skylive/airportal/pkg/logger"
)

// Service manages weather data fetching and caching. The station airport is
// refreshed in the background; any other airport is fetched on demand and
// cached with the same expiry.
type Service struct {
	config      Config
	stationICAO string
	client      *Client
	cache       *Cache
	logger      *logger.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// NewService creates a new weather service
func NewService(config Config, stationICAO string, log *logger.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		config:      config,
		stationICAO: stationICAO,
		client:      NewClient(config, log),
		cache:       NewCache(time.Duration(config.CacheExpiryMinutes) * time.Minute),
		logger:      log.Named("weather-service"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins the background refresh for the station airport
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	s.logger.Info("Starting weather service",
		logger.String("airport", s.stationICAO),
		logger.Int("refresh_interval_minutes", s.config.RefreshIntervalMinutes))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.backgroundRefresh()
	}()

	s.started = true
	return nil
}

// Stop gracefully shuts down the weather service
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}

	s.logger.Info("Stopping weather service")
	s.cancel()
	s.wg.Wait()
	s.started = false
	return nil
}

// GetMetarTaf returns the raw weather bundle for an airport, serving from
// cache when fresh. A nil bundle with a nil error never occurs: failures
// return an error the caller is expected to degrade on.
func (s *Service) GetMetarTaf(ctx context.Context, icao string) (*MetarTaf, error) {
	if icao == "" {
		return nil, fmt.Errorf("airport ICAO is required")
	}

	if cached := s.cache.Get(icao); cached != nil {
		return cached, nil
	}

	bundle, err := s.client.FetchMetarTaf(ctx, icao)
	if err != nil {
		// An expired entry beats no weather at all
		if stale := s.cache.GetStale(icao); stale != nil {
			s.logger.Warn("Serving stale weather after fetch failure",
				logger.String("airport", icao), logger.Error(err))
			return stale, nil
		}
		return nil, err
	}
	s.cache.Set(icao, bundle)
	return bundle, nil
}

// CacheStats returns cache statistics for diagnostics
func (s *Service) CacheStats() map[string]any {
	return s.cache.Stats()
}

// backgroundRefresh keeps the station airport's weather warm
func (s *Service) backgroundRefresh() {
	interval := time.Duration(s.config.RefreshIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.refreshStation()

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Background weather refresh stopped")
			return
		case <-ticker.C:
			s.refreshStation()
		}
	}
}

func (s *Service) refreshStation() {
	if s.stationICAO == "" {
		return
	}

	start := time.Now()
	bundle, err := s.client.FetchMetarTaf(s.ctx, s.stationICAO)
	if err != nil {
		// Expected during upstream outages; GetMetarTaf falls back to the
		// stale entry until the upstream recovers
		s.logger.Warn("Station weather refresh failed",
			logger.String("airport", s.stationICAO),
			logger.Error(err))
		return
	}

	s.cache.Set(s.stationICAO, bundle)
	s.logger.Debug("Station weather refreshed",
		logger.String("airport", s.stationICAO),
		logger.Duration("duration", time.Since(start)))
}
