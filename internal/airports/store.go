package airports

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/westphae/geomag/pkg/egm96"
	"github.com/westphae/geomag/pkg/wmm"
	_ "modernc.org/sqlite"

	"github.com/skylive/airportal/pkg/logger"
)

// airportCacheSize bounds the number of assembled AirportModels kept in
// memory. Models are immutable, so entries only need eviction on reseed.
const airportCacheSize = 128

// Store is the SQLite-backed airport model store
type Store struct {
	db     *sql.DB
	cache  *lru.Cache[string, *AirportModel]
	logger *logger.Logger
}

// NewStore opens (or creates) the airport database at dbPath
func NewStore(dbPath string, log *logger.Logger) (*Store, error) {
	storeLogger := log.Named("airports")

	storeLogger.Info("Initializing airport store", logger.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := initDatabase(db); err != nil {
		db.Close()
		return nil, err
	}

	cache, err := lru.New[string, *AirportModel](airportCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create airport cache: %w", err)
	}

	return &Store{db: db, cache: cache, logger: storeLogger}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func initDatabase(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS airports (
			icao TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			elevation_ft INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS stands (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			airport_icao TEXT NOT NULL REFERENCES airports(icao),
			name TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runways (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			airport_icao TEXT NOT NULL REFERENCES airports(icao),
			ident TEXT NOT NULL,
			heading_deg REAL,
			length_m REAL,
			holding_points TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS frequencies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			airport_icao TEXT NOT NULL REFERENCES airports(icao),
			station TEXT NOT NULL,
			frequency_mhz REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stands_airport ON stands(airport_icao)`,
		`CREATE INDEX IF NOT EXISTS idx_runways_airport ON runways(airport_icao)`,
		`CREATE INDEX IF NOT EXISTS idx_frequencies_airport ON frequencies(airport_icao)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// GetAirport assembles the full airport model for an ICAO code. Models are
// cached; sql.ErrNoRows surfaces as a descriptive error.
func (s *Store) GetAirport(icao string) (*AirportModel, error) {
	if icao == "" {
		return nil, fmt.Errorf("airport ICAO is required")
	}

	if model, ok := s.cache.Get(icao); ok {
		return model, nil
	}

	model := &AirportModel{ICAO: icao}
	err := s.db.QueryRow(
		`SELECT name, lat, lon, elevation_ft FROM airports WHERE icao = ?`, icao,
	).Scan(&model.Name, &model.Lat, &model.Lon, &model.ElevationFt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("airport %s not found", icao)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load airport %s: %w", icao, err)
	}

	if model.Stands, err = s.loadStands(icao); err != nil {
		return nil, err
	}
	if model.Runways, err = s.loadRunways(icao); err != nil {
		return nil, err
	}
	if model.Frequencies, err = s.loadFrequencies(icao); err != nil {
		return nil, err
	}

	model.MagneticDeclinationDeg = magneticDeclination(model.Lat, model.Lon, time.Now())

	s.cache.Add(icao, model)
	return model, nil
}

// ListICAOs returns the ICAO codes of all stored airports
func (s *Store) ListICAOs() ([]string, error) {
	rows, err := s.db.Query(`SELECT icao FROM airports ORDER BY icao`)
	if err != nil {
		return nil, fmt.Errorf("failed to list airports: %w", err)
	}
	defer rows.Close()

	var icaos []string
	for rows.Next() {
		var icao string
		if err := rows.Scan(&icao); err != nil {
			return nil, err
		}
		icaos = append(icaos, icao)
	}
	return icaos, rows.Err()
}

func (s *Store) loadStands(icao string) ([]Stand, error) {
	rows, err := s.db.Query(
		`SELECT id, name, lat, lon FROM stands WHERE airport_icao = ? ORDER BY id`, icao)
	if err != nil {
		return nil, fmt.Errorf("failed to load stands for %s: %w", icao, err)
	}
	defer rows.Close()

	var stands []Stand
	for rows.Next() {
		var stand Stand
		if err := rows.Scan(&stand.ID, &stand.Name, &stand.Lat, &stand.Lon); err != nil {
			return nil, err
		}
		stands = append(stands, stand)
	}
	return stands, rows.Err()
}

func (s *Store) loadRunways(icao string) ([]Runway, error) {
	rows, err := s.db.Query(
		`SELECT id, ident, heading_deg, length_m, holding_points FROM runways WHERE airport_icao = ? ORDER BY id`, icao)
	if err != nil {
		return nil, fmt.Errorf("failed to load runways for %s: %w", icao, err)
	}
	defer rows.Close()

	var rwys []Runway
	for rows.Next() {
		var rwy Runway
		var holdingPoints sql.NullString
		if err := rows.Scan(&rwy.ID, &rwy.Ident, &rwy.HeadingDeg, &rwy.LengthM, &holdingPoints); err != nil {
			return nil, err
		}
		if holdingPoints.Valid && holdingPoints.String != "" {
			if err := json.Unmarshal([]byte(holdingPoints.String), &rwy.HoldingPoints); err != nil {
				s.logger.Warn("Dropping malformed holding points",
					logger.String("airport", icao),
					logger.String("runway", rwy.Ident),
					logger.Error(err))
			}
		}
		rwys = append(rwys, rwy)
	}
	return rwys, rows.Err()
}

func (s *Store) loadFrequencies(icao string) ([]ATCFrequency, error) {
	rows, err := s.db.Query(
		`SELECT station, frequency_mhz FROM frequencies WHERE airport_icao = ? ORDER BY frequency_mhz`, icao)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequencies for %s: %w", icao, err)
	}
	defer rows.Close()

	var freqs []ATCFrequency
	for rows.Next() {
		var freq ATCFrequency
		if err := rows.Scan(&freq.Station, &freq.FrequencyMHz); err != nil {
			return nil, err
		}
		freqs = append(freqs, freq)
	}
	return freqs, rows.Err()
}

// magneticDeclination returns the magnetic declination in degrees for a
// surface point (+East, -West). Returns 0 if the model calculation fails.
func magneticDeclination(lat, lon float64, date time.Time) float64 {
	loc := egm96.NewLocationGeodetic(lat, lon, 0)
	mag, err := wmm.CalculateWMMMagneticField(loc, date)
	if err != nil {
		return 0.0
	}
	return mag.D()
}
