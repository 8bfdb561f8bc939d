package poller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylive/airportal/internal/snapshot"
	"github.com/skylive/airportal/pkg/logger"
)

func livePayloadServer(t *testing.T, status *atomic.Int32, metar *atomic.Value) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/airports/LPPT/live", r.URL.Path)
		if code := status.Load(); code != 0 && code != http.StatusOK {
			w.WriteHeader(int(code))
			return
		}
		payload := snapshot.LivePayload{HasTrafficData: true}
		if v, ok := metar.Load().(string); ok {
			payload.METAR = v
		}
		json.NewEncoder(w).Encode(payload)
	}))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestPollerFirstPollIsImmediate(t *testing.T) {
	var status atomic.Int32
	var metar atomic.Value
	metar.Store("METAR ONE")
	server := livePayloadServer(t, &status, &metar)
	defer server.Close()

	p := New(server.URL, "LPPT", time.Hour, nil, logger.NewNop())
	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return p.Current() != nil })

	current := p.Current()
	assert.Equal(t, "METAR ONE", current.METAR)
	assert.True(t, current.HasTrafficData)
	assert.False(t, p.LastSuccess().IsZero())
}

func TestPollerRetainsStateOnFailure(t *testing.T) {
	var status atomic.Int32
	var metar atomic.Value
	metar.Store("METAR ONE")
	server := livePayloadServer(t, &status, &metar)
	defer server.Close()

	p := New(server.URL, "LPPT", 20*time.Millisecond, nil, logger.NewNop())
	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return p.Current() != nil })
	firstSuccess := p.LastSuccess()

	// Upstream starts failing: displayed state must not clear
	status.Store(http.StatusBadGateway)
	time.Sleep(100 * time.Millisecond)

	current := p.Current()
	require.NotNil(t, current)
	assert.Equal(t, "METAR ONE", current.METAR)

	// Upstream recovers with new data
	metar.Store("METAR TWO")
	status.Store(http.StatusOK)
	waitFor(t, func() bool { return p.Current().METAR == "METAR TWO" })
	assert.True(t, p.LastSuccess().After(firstSuccess) || p.LastSuccess().Equal(firstSuccess))
}

func TestPollerSkipsTicksWhileRequestInFlight(t *testing.T) {
	var inFlight, maxInFlight, requests atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if n := inFlight.Add(1); n > maxInFlight.Load() {
			maxInFlight.Store(n)
		}
		defer inFlight.Add(-1)
		<-release
		json.NewEncoder(w).Encode(snapshot.LivePayload{HasTrafficData: true})
	}))
	defer server.Close()

	p := New(server.URL, "LPPT", 10*time.Millisecond, nil, logger.NewNop())
	p.Start(context.Background())
	defer p.Stop()

	// The first poll blocks on the server; many ticks elapse meanwhile
	waitFor(t, func() bool { return requests.Load() == 1 })
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), requests.Load())

	close(release)
	waitFor(t, func() bool { return p.Current() != nil })

	// Never more than one outstanding request, even across later ticks
	waitFor(t, func() bool { return requests.Load() >= 2 })
	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestPollerStopIsIdempotent(t *testing.T) {
	var status atomic.Int32
	var metar atomic.Value
	server := livePayloadServer(t, &status, &metar)
	defer server.Close()

	p := New(server.URL, "LPPT", time.Hour, nil, logger.NewNop())
	p.Start(context.Background())
	p.Stop()
	p.Stop() // no-op on a stopped poller
	assert.NotPanics(t, func() { p.Stop() })
}

func TestPollerDefaultInterval(t *testing.T) {
	p := New("http://localhost", "LPPT", 0, nil, logger.NewNop())
	assert.Equal(t, DefaultInterval, p.interval)
}
