package refdata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/ascpricer/internal/normalize"
)

// NoReferenceDataError means no reference period exists at or before the
// requested service date. Fatal for the whole claim.
type NoReferenceDataError struct {
	Date time.Time
}

func (e *NoReferenceDataError) Error() string {
	return fmt.Sprintf("no ASC reference data for %s or any prior quarter", e.Date.Format("2006-01-02"))
}

// quarterDir is one discovered quarter directory under the data root.
type quarterDir struct {
	start time.Time
	path  string
}

// Store resolves service dates to reference bundles. Quarter directories
// live at <dataDir>/<YYYY>/<YYYYMMDD>/. Loaded bundles are cached and
// shared read-only; the store is safe for concurrent use.
type Store struct {
	dataDir string
	log     zerolog.Logger

	mu       sync.RWMutex
	quarters []quarterDir // sorted descending by start, nil until first scan
	bundles  map[string]*Bundle
}

// NewStore creates a Store over a reference data directory. No I/O happens
// until Resolve or Preload.
func NewStore(dataDir string, log zerolog.Logger) *Store {
	return &Store{
		dataDir: dataDir,
		log:     log,
		bundles: make(map[string]*Bundle),
	}
}

// Preload scans every available quarter and loads each bundle into the
// cache so later Resolve calls do no file I/O.
func (s *Store) Preload() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.scanLocked(); err != nil {
		return 0, err
	}
	for _, q := range s.quarters {
		if _, ok := s.bundles[q.path]; ok {
			continue
		}
		b, err := s.loadLocked(q)
		if err != nil {
			return len(s.bundles), fmt.Errorf("preload %s: %w", q.path, err)
		}
		s.bundles[q.path] = b
	}
	return len(s.bundles), nil
}

// Resolve returns the bundle whose quarter covers the service date. When
// the exact quarter is not published, the most recent quarter at or before
// the date is used; a date before all published data is a
// NoReferenceDataError.
func (s *Store) Resolve(date time.Time) (*Bundle, error) {
	target, err := s.findQuarter(date)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	b, ok := s.bundles[target.path]
	s.mu.RUnlock()
	if ok {
		return b, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bundles[target.path]; ok {
		return b, nil
	}
	b, err = s.loadLocked(target)
	if err != nil {
		return nil, err
	}
	s.bundles[target.path] = b
	return b, nil
}

// findQuarter locates the newest published quarter at or before the date.
func (s *Store) findQuarter(date time.Time) (quarterDir, error) {
	s.mu.Lock()
	if s.quarters == nil {
		if err := s.scanLocked(); err != nil {
			s.mu.Unlock()
			return quarterDir{}, err
		}
	}
	quarters := s.quarters
	s.mu.Unlock()

	// quarters is sorted descending; take the first start <= date.
	for _, q := range quarters {
		if !q.start.After(date) {
			return q, nil
		}
	}
	return quarterDir{}, &NoReferenceDataError{Date: date}
}

// scanLocked walks <dataDir>/<year>/<YYYYMMDD> and rebuilds the quarter
// index, newest first. Caller holds mu.
func (s *Store) scanLocked() error {
	years, err := os.ReadDir(s.dataDir)
	if err != nil {
		return fmt.Errorf("scan reference data dir: %w", err)
	}

	var quarters []quarterDir
	for _, y := range years {
		if !y.IsDir() {
			continue
		}
		yearDir := filepath.Join(s.dataDir, y.Name())
		entries, err := os.ReadDir(yearDir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			start := normalize.Date(e.Name())
			if start == nil || len(e.Name()) != 8 {
				continue
			}
			quarters = append(quarters, quarterDir{
				start: *start,
				path:  filepath.Join(yearDir, e.Name()),
			})
		}
	}
	sort.Slice(quarters, func(i, j int) bool { return quarters[i].start.After(quarters[j].start) })
	s.quarters = quarters

	s.log.Debug().Int("quarters", len(quarters)).Str("data_dir", s.dataDir).Msg("scanned reference quarters")
	return nil
}

// loadLocked loads one quarter's bundle, preferring the snapshot cache.
// Caller holds mu.
func (s *Store) loadLocked(q quarterDir) (*Bundle, error) {
	if b, ok := readSnapshot(q.path, s.dataDir, q.start.Year()); ok {
		s.log.Debug().Str("quarter", q.start.Format("20060102")).Msg("loaded bundle from snapshot")
		return b, nil
	}

	start := time.Now()
	b, err := loadQuarter(q.path, s.dataDir, q.start)
	if err != nil {
		return nil, err
	}
	writeSnapshot(q.path, b, s.log)

	s.log.Info().
		Str("quarter", q.start.Format("20060102")).
		Int("rates", len(b.Rates)).
		Int("device_offsets", len(b.DeviceOffsets)).
		Int("wage_indexes", len(b.WageIndexes)).
		Int("code_pairs", len(b.CodePairs)).
		Dur("elapsed", time.Since(start)).
		Msg("loaded reference bundle")
	return b, nil
}
