package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/paths"
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Asset is one file a run wrote.
type Asset struct {
	Name   string
	Width  int
	Height int
	Bytes  int
	SHA256 string
}

// Run records a single invocation of mkicon or icoconv.
type Run struct {
	Time   time.Time
	Tool   string
	Status string
	Error  string
	Assets []Asset
}

// Store abstracts run log storage: FileStore (flat log file) or
// SQLiteStore.
type Store interface {
	// Write
	Log(run Run) error

	// Read
	Entries(days int) ([]Entry, error) // parsed entries, 0 = all
	ReadContent() (string, error)      // raw log text

	// Maintenance
	Clean(days int) (int, error) // remove old runs, return removed count
	Clear() error                // delete all data

	// Metadata
	Path() string
	Close() error
}

// Open returns the store selected by the config's storage option, located
// in dir (normally paths.DataDir()).
func Open(cfg config.Config, dir string) (Store, error) {
	switch cfg.Options.Storage {
	case config.StorageSQLite:
		return NewSQLiteStore(filepath.Join(dir, paths.DBFileName))
	case config.StorageFile, "":
		return NewFileStore(filepath.Join(dir, paths.LogFileName)), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Options.Storage)
	}
}

// Record logs run to the configured store. Errors are printed to stderr
// but never returned.
func Record(cfg config.Config, dir string, run Run) {
	s, err := Open(cfg, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "eventlog: %v\n", err)
		return
	}
	defer s.Close()
	if err := s.Log(run); err != nil {
		fmt.Fprintf(os.Stderr, "eventlog: %v\n", err)
	}
}

// stamp returns the RFC3339 timestamp of a run, defaulting to now.
func stamp(run Run) string {
	t := run.Time
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(time.RFC3339)
}
