package store

import (
	"fmt"
	"path/filepath"

	"fjacquet/clarity-ledger/internal/logging"
)

// SQLiteFileName is the database file created inside the data directory.
const SQLiteFileName = "clarity.db"

// Open returns the backend named by backend, rooted at dir.
func Open(backend, dir string, logger logging.Logger) (KeyValueStore, error) {
	logger = logging.OrDiscard(logger)
	switch backend {
	case BackendMemory:
		logger.Debug("Using in-memory store", logging.F(logging.FieldBackend, backend))
		return NewMemoryStore(), nil
	case BackendFile, "":
		fs, err := NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("Using JSON file store", logging.F(logging.FieldBackend, BackendFile), logging.F(logging.FieldFile, dir))
		return fs, nil
	case BackendSQLite:
		path := filepath.Join(dir, SQLiteFileName)
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("Using SQLite store", logging.F(logging.FieldBackend, backend), logging.F(logging.FieldFile, path))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
