// Package poller implements the client-side poll loop for the live airport
// panels: fetch the snapshot on a fixed interval, merge successes into the
// displayed state, and silently keep the previous good state on failure.
package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/skylive/airportal/internal/snapshot"
	"github.com/skylive/airportal/pkg/logger"
)

// DefaultInterval is the live-panel poll interval. Operationally tuned
// against upstream rate limits; change only with a product decision.
const DefaultInterval = 60 * time.Second

// Poller polls one airport's live endpoint. At most one request is
// outstanding at a time: a tick that fires while a request is in flight is
// skipped. There is no cancellation of slow responses, so a late response
// may overwrite state written by a newer one - last write wins.
type Poller struct {
	baseURL    string
	icao       string
	interval   time.Duration
	httpClient *http.Client
	logger     *logger.Logger

	mu       sync.Mutex
	inFlight bool
	current  *snapshot.LivePayload
	lastPoll time.Time

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// New creates a poller for the given portal base URL and airport. A nil
// httpClient uses http.DefaultClient; timeouts are the client's concern.
func New(baseURL, icao string, interval time.Duration, httpClient *http.Client, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Poller{
		baseURL:    baseURL,
		icao:       icao,
		interval:   interval,
		httpClient: httpClient,
		logger:     log.Named("poller"),
	}
}

// Start begins polling. The first request is issued immediately.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.started = true

	go p.run(ctx)
}

// Stop halts the loop and waits for it to exit
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.started = false
	p.mu.Unlock()

	cancel()
	<-done
}

// Current returns the last successfully fetched payload, or nil before the
// first success. Failures never clear it: the displayed state must not
// flicker to empty during an outage.
func (p *Poller) Current() *snapshot.LivePayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// LastSuccess returns when the current payload was fetched
func (p *Poller) LastSuccess() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPoll
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce issues one poll unless one is already outstanding
func (p *Poller) pollOnce(ctx context.Context) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		p.logger.Debug("Skipping poll tick, request still in flight",
			logger.String("airport", p.icao))
		return
	}
	p.inFlight = true
	p.mu.Unlock()

	payload, err := p.fetch(ctx)

	p.mu.Lock()
	p.inFlight = false
	if err != nil {
		// Keep the previous good state
		p.mu.Unlock()
		p.logger.Warn("Live poll failed, retaining previous state",
			logger.String("airport", p.icao), logger.Error(err))
		return
	}
	p.current = payload
	p.lastPoll = time.Now()
	p.mu.Unlock()
}

func (p *Poller) fetch(ctx context.Context) (*snapshot.LivePayload, error) {
	url := fmt.Sprintf("%s/api/v1/airports/%s/live", p.baseURL, p.icao)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload snapshot.LivePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("error decoding live payload: %w", err)
	}
	return &payload, nil
}
