package refdata

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// snapshotVersion invalidates every existing snapshot whenever the Bundle
// structure changes.
const snapshotVersion = 1

const snapshotName = "bundle.gob"

// snapshot is the on-disk form of a parsed bundle.
type snapshot struct {
	Version int
	Bundle  *Bundle
}

// readSnapshot returns the cached bundle for a quarter directory when the
// snapshot exists, matches the current version, and is newer than every
// source file it was built from. Corrupt or stale snapshots are ignored;
// the caller reparses the CSVs.
func readSnapshot(quarterPath, dataRoot string, year int) (*Bundle, bool) {
	path := filepath.Join(quarterPath, snapshotName)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if !snapshotFresh(info.ModTime(), quarterPath, dataRoot, year) {
		return nil, false
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, false
	}
	if snap.Version != snapshotVersion || snap.Bundle == nil {
		return nil, false
	}
	return snap.Bundle, true
}

// writeSnapshot persists a parsed bundle next to its source files. Failures
// are logged and swallowed; the snapshot is an optimization only.
func writeSnapshot(quarterPath string, b *Bundle, log zerolog.Logger) {
	path := filepath.Join(quarterPath, snapshotName)
	f, err := os.Create(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("snapshot write skipped")
		return
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(snapshot{Version: snapshotVersion, Bundle: b}); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("snapshot encode failed")
		os.Remove(path)
	}
}

// snapshotFresh reports whether the snapshot mtime is newer than every
// CSV/TXT in the quarter directory, the year-level wage index file, and the
// year's normalized code pair file.
func snapshotFresh(snapTime time.Time, quarterPath, dataRoot string, year int) bool {
	sources := []string{
		findFile(quarterPath, "AA"),
		findFile(quarterPath, "BB"),
		findFile(quarterPath, "FF"),
		findFile(filepath.Dir(quarterPath), "wage_index"),
		filepath.Join(dataRoot, "normalized", fmt.Sprintf("code_pairs_%d.csv", year)),
		filepath.Join(dataRoot, "normalized", "code_pairs_combined.csv"),
	}
	for _, src := range sources {
		if src == "" {
			continue
		}
		info, err := os.Stat(src)
		if err != nil {
			continue
		}
		if info.ModTime().After(snapTime) {
			return false
		}
	}
	return true
}
