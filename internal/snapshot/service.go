package snapshot

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skylive/airportal/internal/airports"
	"github.com/skylive/airportal/internal/feeds"
	"github.com/skylive/airportal/internal/weather"
	"github.com/skylive/airportal/pkg/logger"
)

// Service fetches the live feeds and builds snapshots on demand. All feed
// fetches run concurrently; a failed feed is logged and handed to Build as
// nil, so a single upstream outage degrades one facet instead of the page.
type Service struct {
	store          *airports.Store
	feedClient     *feeds.Client
	weatherService *weather.Service
	logger         *logger.Logger
}

// NewService creates a new snapshot service
func NewService(store *airports.Store, feedClient *feeds.Client, weatherService *weather.Service, log *logger.Logger) *Service {
	return &Service{
		store:          store,
		feedClient:     feedClient,
		weatherService: weatherService,
		logger:         log.Named("snapshot-service"),
	}
}

// Snapshot produces the live snapshot for one airport
func (s *Service) Snapshot(ctx context.Context, icao string) (*LiveSnapshot, error) {
	airport, err := s.store.GetAirport(icao)
	if err != nil {
		return nil, err
	}

	bundle := s.fetchFeeds(ctx, icao)

	snap, err := Build(airport, bundle)
	if err != nil {
		return nil, err
	}
	snap.GeneratedAt = time.Now().UTC()
	return snap, nil
}

// fetchFeeds fans out to all feed sources and joins. Every branch recovers
// its own failure into a nil feed; the group never returns an error.
func (s *Service) fetchFeeds(ctx context.Context, icao string) FeedBundle {
	var bundle FeedBundle

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		wx, err := s.weatherService.GetMetarTaf(gctx, icao)
		if err != nil {
			s.logger.Warn("Weather unavailable for snapshot",
				logger.String("airport", icao), logger.Error(err))
			return nil
		}
		bundle.Weather = wx
		return nil
	})

	g.Go(func() error {
		payload, err := s.feedClient.GetWhazzup(gctx)
		if err != nil {
			s.logger.Warn("Whazzup feed unavailable for snapshot",
				logger.String("airport", icao), logger.Error(err))
			return nil
		}
		bundle.Whazzup = payload
		return nil
	})

	g.Go(func() error {
		payload, err := s.feedClient.GetFlights(gctx)
		if err != nil {
			s.logger.Warn("Flights feed unavailable for snapshot",
				logger.String("airport", icao), logger.Error(err))
			return nil
		}
		bundle.Flights = payload
		return nil
	})

	g.Go(func() error {
		payload, err := s.feedClient.GetOnlineATC(gctx)
		if err != nil {
			s.logger.Warn("ATC feed unavailable for snapshot",
				logger.String("airport", icao), logger.Error(err))
			return nil
		}
		bundle.OnlineATC = payload
		return nil
	})

	// Branches never return errors; Wait only orders the writes above
	_ = g.Wait()

	return bundle
}

// AirportActivity summarizes one airport's live activity for the airspace
// overview
type AirportActivity struct {
	ICAO          string `json:"icao"`
	Name          string `json:"name"`
	OnlineATC     int    `json:"online_atc"`
	InboundCount  int    `json:"inbound"`
	OutboundCount int    `json:"outbound"`
}

// AirspaceOverview aggregates live activity across every stored airport
// from a single shared feed fetch
func (s *Service) AirspaceOverview(ctx context.Context) ([]AirportActivity, error) {
	icaos, err := s.store.ListICAOs()
	if err != nil {
		return nil, err
	}

	// One fetch shared by all airports; weather is not needed here
	bundle := s.fetchTrafficFeeds(ctx)

	activities := make([]AirportActivity, 0, len(icaos))
	for _, icao := range icaos {
		airport, err := s.store.GetAirport(icao)
		if err != nil {
			s.logger.Warn("Skipping airport in airspace overview",
				logger.String("airport", icao), logger.Error(err))
			continue
		}

		snap, err := Build(airport, bundle)
		if err != nil {
			continue
		}
		activities = append(activities, AirportActivity{
			ICAO:          airport.ICAO,
			Name:          airport.Name,
			OnlineATC:     len(snap.ATC),
			InboundCount:  len(snap.Inbound),
			OutboundCount: len(snap.Outbound),
		})
	}
	return activities, nil
}

func (s *Service) fetchTrafficFeeds(ctx context.Context) FeedBundle {
	var bundle FeedBundle

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if payload, err := s.feedClient.GetWhazzup(gctx); err == nil {
			bundle.Whazzup = payload
		}
		return nil
	})
	g.Go(func() error {
		if payload, err := s.feedClient.GetFlights(gctx); err == nil {
			bundle.Flights = payload
		}
		return nil
	})
	g.Go(func() error {
		if payload, err := s.feedClient.GetOnlineATC(gctx); err == nil {
			bundle.OnlineATC = payload
		}
		return nil
	})
	_ = g.Wait()

	return bundle
}
