// Package history records update runs in a SQLite database.
package history

import (
	"context"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agentstation/modcatalog"
	"github.com/agentstation/modcatalog/pkg/constants"
	"github.com/agentstation/modcatalog/pkg/errors"
	"github.com/agentstation/modcatalog/pkg/logging"
)

// Compile-time interface check.
var _ modcatalog.RunRecorder = (*Store)(nil)

// Store persists run records.
type Store struct {
	db *gorm.DB
}

// Open connects to the database at path, creating it and migrating the
// schema when needed.
func Open(path string, logger *zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, &errors.ValidationError{Field: "history_db", Message: "cannot be empty"}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}

	// zerolog.Logger satisfies gorm's Printf writer.
	gormLog := gormlogger.New(logger, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(gormlite.Open(path), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, errors.WrapResource("open", "history", path, err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, errors.WrapResource("migrate", "history", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordRun implements modcatalog.RunRecorder.
func (s *Store) RecordRun(ctx context.Context, record modcatalog.RunRecord) error {
	if record.RunID == "" {
		return &errors.ValidationError{Field: "run_id", Message: "cannot be empty"}
	}
	if err := s.db.WithContext(ctx).Create(newRun(record)).Error; err != nil {
		return errors.WrapResource("record", "history", record.RunID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	query := s.db.WithContext(ctx).Order("started_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, errors.WrapResource("list", "history", "", err)
	}
	return runs, nil
}

// Get returns the run with the given run ID.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &errors.NotFoundError{Resource: "run", ID: runID}
	}
	if err != nil {
		return nil, errors.WrapResource("get", "history", runID, err)
	}
	return &run, nil
}

// LastPersisted returns the newest run that saved a catalog version.
func (s *Store) LastPersisted(ctx context.Context) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Where("outcome = ?", modcatalog.OutcomePersisted.String()).
		Order("started_at DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &errors.NotFoundError{Resource: "run", ID: "last persisted"}
	}
	if err != nil {
		return nil, errors.WrapResource("get", "history", "", err)
	}
	return &run, nil
}
