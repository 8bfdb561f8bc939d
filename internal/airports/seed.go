package airports

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/skylive/airportal/pkg/logger"
)

// Seed file shapes. The JSON mirrors the portal's airport editor export.
type seedFile struct {
	Airports []seedAirport `json:"airports"`
}

type seedAirport struct {
	ICAO        string          `json:"icao"`
	Name        string          `json:"name"`
	Lat         float64         `json:"lat"`
	Lon         float64         `json:"lon"`
	ElevationFt *int            `json:"elevation_ft"`
	Stands      []seedStand     `json:"stands"`
	Runways     []seedRunway    `json:"runways"`
	Frequencies []seedFrequency `json:"frequencies"`
}

type seedStand struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type seedRunway struct {
	Ident         string   `json:"ident"`
	HeadingDeg    *float64 `json:"heading_deg"`
	LengthM       *float64 `json:"length_m"`
	HoldingPoints []string `json:"holding_points"`
}

type seedFrequency struct {
	Station      string  `json:"station"`
	FrequencyMHz float64 `json:"frequency_mhz"`
}

// SeedFromJSON imports airport models from a JSON seed file. Existing rows
// for each seeded airport are replaced, so reseeding is idempotent.
func (s *Store) SeedFromJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, airport := range seed.Airports {
		if airport.ICAO == "" {
			return fmt.Errorf("seed airport with empty ICAO: %q", airport.Name)
		}

		for _, table := range []string{"stands", "runways", "frequencies"} {
			if _, err := tx.Exec("DELETE FROM "+table+" WHERE airport_icao = ?", airport.ICAO); err != nil {
				return fmt.Errorf("failed to clear %s for %s: %w", table, airport.ICAO, err)
			}
		}

		if _, err := tx.Exec(
			`INSERT INTO airports (icao, name, lat, lon, elevation_ft) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(icao) DO UPDATE SET name=excluded.name, lat=excluded.lat, lon=excluded.lon, elevation_ft=excluded.elevation_ft`,
			airport.ICAO, airport.Name, airport.Lat, airport.Lon, airport.ElevationFt); err != nil {
			return fmt.Errorf("failed to upsert airport %s: %w", airport.ICAO, err)
		}

		for _, stand := range airport.Stands {
			if _, err := tx.Exec(
				`INSERT INTO stands (airport_icao, name, lat, lon) VALUES (?, ?, ?, ?)`,
				airport.ICAO, stand.Name, stand.Lat, stand.Lon); err != nil {
				return fmt.Errorf("failed to insert stand %s/%s: %w", airport.ICAO, stand.Name, err)
			}
		}

		for _, rwy := range airport.Runways {
			var holdingPoints any
			if len(rwy.HoldingPoints) > 0 {
				encoded, err := json.Marshal(rwy.HoldingPoints)
				if err != nil {
					return fmt.Errorf("failed to encode holding points for %s/%s: %w", airport.ICAO, rwy.Ident, err)
				}
				holdingPoints = string(encoded)
			}
			if _, err := tx.Exec(
				`INSERT INTO runways (airport_icao, ident, heading_deg, length_m, holding_points) VALUES (?, ?, ?, ?, ?)`,
				airport.ICAO, rwy.Ident, rwy.HeadingDeg, rwy.LengthM, holdingPoints); err != nil {
				return fmt.Errorf("failed to insert runway %s/%s: %w", airport.ICAO, rwy.Ident, err)
			}
		}

		for _, freq := range airport.Frequencies {
			if _, err := tx.Exec(
				`INSERT INTO frequencies (airport_icao, station, frequency_mhz) VALUES (?, ?, ?)`,
				airport.ICAO, freq.Station, freq.FrequencyMHz); err != nil {
				return fmt.Errorf("failed to insert frequency %s/%s: %w", airport.ICAO, freq.Station, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	// Assembled models may now be stale
	s.cache.Purge()

	s.logger.Info("Airport seed imported",
		logger.String("path", path),
		logger.Int("airports", len(seed.Airports)))
	return nil
}
