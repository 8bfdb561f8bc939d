package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/skylive/airportal/pkg/logger"
)

// ClientConfig contains the live-network feed client configuration
type ClientConfig struct {
	WhazzupURL            string `toml:"whazzup_url"`              // Combined pilots/controllers bundle endpoint
	FlightsURL            string `toml:"flights_url"`              // Tracked flights list endpoint
	OnlineATCURL          string `toml:"online_atc_url"`           // Online controllers list endpoint
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`  // HTTP request timeout in seconds
	MaxRetries            int    `toml:"max_retries"`              // Retry attempts for failed requests
}

// Client fetches raw live-network feed payloads. Payloads are returned as
// decoded-but-untyped JSON; the normalizer owns shape tolerance.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new feed client
func NewClient(config ClientConfig, log *logger.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
		},
		logger: log.Named("feed-client"),
	}
}

// GetWhazzup fetches the combined pilots/controllers bundle
func (c *Client) GetWhazzup(ctx context.Context) (any, error) {
	return c.fetchWithRetry(ctx, "whazzup", c.config.WhazzupURL)
}

// GetFlights fetches the tracked flights list
func (c *Client) GetFlights(ctx context.Context) (any, error) {
	return c.fetchWithRetry(ctx, "flights", c.config.FlightsURL)
}

// GetOnlineATC fetches the online controllers list
func (c *Client) GetOnlineATC(ctx context.Context) (any, error) {
	return c.fetchWithRetry(ctx, "online_atc", c.config.OnlineATCURL)
}

// fetchWithRetry performs an HTTP GET with retry logic and exponential backoff
func (c *Client) fetchWithRetry(ctx context.Context, feed, url string) (any, error) {
	if url == "" {
		return nil, fmt.Errorf("no URL configured for %s feed", feed)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			c.logger.Info("Retrying feed fetch",
				logger.String("feed", feed),
				logger.Int("attempt", attempt),
				logger.String("backoff", backoff.String()))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("error building request for %s feed: %w", feed, err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("error fetching %s feed: %w", feed, err)
			c.logger.Warn("Feed request failed, may retry",
				logger.String("feed", feed),
				logger.Error(err),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		var payload any
		decodeErr := json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status code from %s feed: %d", feed, resp.StatusCode)
			c.logger.Warn("Feed returned non-OK status, may retry",
				logger.String("feed", feed),
				logger.Int("status_code", resp.StatusCode),
				logger.Int("attempt", attempt+1))
			continue
		}

		if decodeErr != nil {
			lastErr = fmt.Errorf("error decoding %s feed: %w", feed, decodeErr)
			c.logger.Warn("Failed to decode feed payload, may retry",
				logger.String("feed", feed),
				logger.Error(decodeErr),
				logger.Int("attempt", attempt+1))
			continue
		}

		return payload, nil
	}

	c.logger.Error("All attempts to fetch feed failed",
		logger.String("feed", feed),
		logger.Error(lastErr),
		logger.Int("max_attempts", c.config.MaxRetries+1))
	return nil, lastErr
}
