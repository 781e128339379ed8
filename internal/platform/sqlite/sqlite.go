package sqlite

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open opens (creating if needed) a SQLite database file via GORM.
func Open(path string) (*gorm.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

// OpenStore opens the SQLite file backing one of the four stores under the
// data directory. Each store gets its own file, keeping the stores
// independently committed databases. On failure it logs and returns nil with
// a no-op cleanup; the caller picks the fallback.
func OpenStore(logger *slog.Logger, dataDir, store string) (*gorm.DB, func()) {
	path := filepath.Join(dataDir, store+".db")
	db, err := Open(path)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to open sqlite store",
				slog.String("store", store), slog.String("path", path), slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		if logger != nil {
			logger.Warn("failed to unwrap sqlite connection", slog.String("store", store), slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("sqlite store opened", slog.String("store", store), slog.String("path", path))
	}
	return db, func() { _ = sqlDB.Close() }
}
