package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylive/airportal/pkg/logger"
)

func TestClientFetchesDecodedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"clients": {"pilots": []}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{WhazzupURL: server.URL, RequestTimeoutSeconds: 5}, logger.NewNop())

	payload, err := client.GetWhazzup(context.Background())
	require.NoError(t, err)

	rec, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, rec, "clients")
}

func TestClientRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{FlightsURL: server.URL, RequestTimeoutSeconds: 5, MaxRetries: 2}, logger.NewNop())

	payload, err := client.GetFlights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []any{}, payload)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{OnlineATCURL: server.URL, RequestTimeoutSeconds: 5, MaxRetries: 1}, logger.NewNop())

	_, err := client.GetOnlineATC(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientMissingURL(t *testing.T) {
	client := NewClient(ClientConfig{}, logger.NewNop())

	_, err := client.GetFlights(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no URL configured")
}

func TestClientContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{WhazzupURL: server.URL, RequestTimeoutSeconds: 5, MaxRetries: 5}, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetWhazzup(ctx)
	assert.Error(t, err)
}
