// Package kv implements pkg/persist.Store over an embedded BadgerDB,
// grounded on the corpus's own badger-backed document store configuration.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/domainlens/domainlens/pkg/model"
)

// Config mirrors the corpus's own resource-profile knobs, trimmed to the
// ones a single-report-per-project workload actually uses.
type Config struct {
	DataDir     string
	InMemory    bool
	Compression bool
	SyncWrites  bool
}

// DefaultConfig returns a modest on-disk configuration.
func DefaultConfig(dataDir string) Config {
	return Config{DataDir: dataDir, Compression: true}
}

// Store persists one TechnicalReport per project ID as a JSON value under a
// `report:<projectID>` key.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) the Badger database described by cfg.
func Open(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(filepath.Join(cfg.DataDir, "badger"))
	if cfg.InMemory {
		opts = badger.DefaultOptions("")
		opts.InMemory = true
	}
	opts.SyncWrites = cfg.SyncWrites
	if cfg.Compression {
		opts.Compression = options.ZSTD
	} else {
		opts.Compression = options.None
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func reportKey(projectID string) []byte { return []byte("report:" + projectID) }

// Save writes report under projectID, overwriting any prior value.
func (s *Store) Save(ctx context.Context, projectID string, report model.TechnicalReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reportKey(projectID), data)
	})
}

// Load reads the report previously saved under projectID.
func (s *Store) Load(ctx context.Context, projectID string) (model.TechnicalReport, error) {
	var report model.TechnicalReport
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(reportKey(projectID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &report)
		})
	})
	if err != nil {
		return model.TechnicalReport{}, fmt.Errorf("loading report for %q: %w", projectID, err)
	}
	return report, nil
}
