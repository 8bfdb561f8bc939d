package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skylive/airportal/pkg/logger"
)

// Client fetches raw METAR/TAF text from the upstream weather API
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new weather API client
func NewClient(config Config, log *logger.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
		},
		logger: log.Named("weather-client"),
	}
}

type productResult struct {
	product string
	text    string
	err     error
}

// FetchMetarTaf fetches the raw METAR and TAF for an airport concurrently.
// A single failed product degrades to an empty string; an error is returned
// only when both products fail.
func (c *Client) FetchMetarTaf(ctx context.Context, icao string) (*MetarTaf, error) {
	results := make(chan productResult, 2)
	for _, product := range []string{"metar", "taf"} {
		go func(product string) {
			text, err := c.fetchProduct(ctx, product, icao)
			results <- productResult{product: product, text: text, err: err}
		}(product)
	}

	bundle := &MetarTaf{LastUpdated: time.Now().UTC()}
	var errs []error
	for i := 0; i < 2; i++ {
		result := <-results
		if result.err != nil {
			errs = append(errs, result.err)
			c.logger.Warn("Weather product fetch failed",
				logger.String("product", result.product),
				logger.String("airport", icao),
				logger.Error(result.err))
			continue
		}
		switch result.product {
		case "metar":
			bundle.METAR = result.text
		case "taf":
			bundle.TAF = result.text
		}
	}

	if len(errs) == 2 {
		return nil, fmt.Errorf("all weather products failed for %s: %v", icao, errs)
	}
	return bundle, nil
}

// fetchProduct fetches one raw-text product with retry and backoff
func (c *Client) fetchProduct(ctx context.Context, product, icao string) (string, error) {
	url := fmt.Sprintf("%s/%s?ids=%s&format=raw", c.config.APIBaseURL, product, icao)

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", fmt.Errorf("error building %s request: %w", product, err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("error fetching %s: %w", product, err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status code fetching %s: %d", product, resp.StatusCode)
			continue
		}
		if readErr != nil {
			lastErr = fmt.Errorf("error reading %s response: %w", product, readErr)
			continue
		}

		return strings.TrimSpace(string(body)), nil
	}

	return "", lastErr
}
