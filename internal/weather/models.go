package weather

import (
	"sync"
	"time"
)

// ParsedMETAR represents the structured fields decoded from a raw METAR
// string. Every field is optional: a parse miss leaves the field nil/empty
// and never fails the decode.
type ParsedMETAR struct {
	WindDirectionDeg *float64     `json:"wind_direction_deg,omitempty"` // nil = variable/calm
	WindSpeedKt      *float64     `json:"wind_speed_kt,omitempty"`
	GustKt           *float64     `json:"gust_kt,omitempty"`
	Visibility       string       `json:"visibility,omitempty"` // "9999" or "10SM" style, as reported
	TemperatureC     *int         `json:"temperature_c,omitempty"`
	DewpointC        *int         `json:"dewpoint_c,omitempty"`
	QNHhPa           *int         `json:"qnh_hpa,omitempty"`
	AltimeterInHg    *float64     `json:"altimeter_inhg,omitempty"`
	CloudLayers      []CloudLayer `json:"cloud_layers,omitempty"`
	PresentWeather   []string     `json:"present_weather,omitempty"` // Human labels, e.g. "Light Rain"
}

// CloudLayer represents a single cloud layer group in order of appearance
type CloudLayer struct {
	Code            string `json:"code"`   // Raw group, e.g. "BKN035"
	Type            string `json:"type"`   // FEW, SCT, BKN, or OVC
	HeightHundredFt int    `json:"height"` // Height in hundreds of feet
}

// TAFPeriod represents one forecast period of a TAF, in order of appearance.
// Temperature and pressure are not part of TAF output.
type TAFPeriod struct {
	Label            string       `json:"label"` // "INITIAL", "FM 120300", "TEMPO 1203/1206", ...
	WindDirectionDeg *float64     `json:"wind_direction_deg,omitempty"`
	WindSpeedKt      *float64     `json:"wind_speed_kt,omitempty"`
	GustKt           *float64     `json:"gust_kt,omitempty"`
	Visibility       string       `json:"visibility,omitempty"`
	CloudLayers      []CloudLayer `json:"cloud_layers,omitempty"`
	PresentWeather   []string     `json:"present_weather,omitempty"`
}

// MetarTaf is the raw weather bundle for one airport as fetched upstream.
// Either field may be empty when the corresponding product was unavailable.
type MetarTaf struct {
	METAR       string    `json:"metar,omitempty"`
	TAF         string    `json:"taf,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// Config contains the weather service configuration
type Config struct {
	RefreshIntervalMinutes int    `toml:"refresh_interval_minutes"` // Background refresh interval for the station airport
	APIBaseURL             string `toml:"api_base_url"`             // Base URL for the METAR/TAF API
	RequestTimeoutSeconds  int    `toml:"request_timeout_seconds"`  // HTTP request timeout in seconds
	MaxRetries             int    `toml:"max_retries"`              // Retry attempts for failed requests
	CacheExpiryMinutes     int    `toml:"cache_expiry_minutes"`     // How long cached raw text stays valid
}

// cacheEntry holds one airport's cached raw weather with its expiry
type cacheEntry struct {
	data      *MetarTaf
	expiresAt time.Time
}

// Cache is a thread-safe per-airport cache of raw METAR/TAF text
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	expiry  time.Duration

	hits   int64
	misses int64
}

// NewCache creates a new weather cache with the given entry lifetime
func NewCache(expiry time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		expiry:  expiry,
	}
}

// Get returns the cached bundle for an airport, or nil when absent/expired
func (c *Cache) Get(icao string) *MetarTaf {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[icao]
	if !ok || time.Now().After(entry.expiresAt) {
		c.misses++
		return nil
	}
	c.hits++
	return entry.data
}

// GetStale returns the cached bundle for an airport regardless of expiry,
// or nil when none was ever stored. Fallback for upstream outages.
func (c *Cache) GetStale(icao string) *MetarTaf {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.entries[icao]; ok {
		return entry.data
	}
	return nil
}

// Set stores a bundle for an airport
func (c *Cache) Set(icao string, data *MetarTaf) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[icao] = cacheEntry{data: data, expiresAt: time.Now().Add(c.expiry)}
}

// Stats returns cache hit/miss counters
func (c *Cache) Stats() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]any{
		"entries": len(c.entries),
		"hits":    c.hits,
		"misses":  c.misses,
	}
}
