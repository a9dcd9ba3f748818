package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pthm-cable/antcolony/telemetry"
)

// runRow is the runs table.
type runRow struct {
	ID         string `gorm:"primaryKey"`
	Seed       int64
	StartedAt  time.Time
	ConfigYAML string
}

func (runRow) TableName() string { return "antcolony_runs" }

// generationRow is the generations table. Summary columns are kept next to the
// full payload so runs can be compared in SQL.
type generationRow struct {
	RunID       string `gorm:"primaryKey"`
	Generation  int    `gorm:"primaryKey"`
	Tick        int64
	Deliveries  int
	BestFitness float64
	MeanFitness float64
	Payload     []byte
}

func (generationRow) TableName() string { return "antcolony_generations" }

// PostgresStore persists runs through gorm.
type PostgresStore struct {
	dsn string

	mu sync.RWMutex
	db *gorm.DB
}

func NewPostgresStore(dsn string) *PostgresStore {
	return &PostgresStore{dsn: dsn}
}

// NewPostgresStoreWithDB wraps an open connection. Init still migrates the tables.
func NewPostgresStoreWithDB(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		db, err := gorm.Open(postgres.Open(s.dsn), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		s.db = db
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&runRow{}, &generationRow{}); err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	row := runRow{ID: run.ID, Seed: run.Seed, StartedAt: run.StartedAt, ConfigYAML: run.ConfigYAML}
	return db.WithContext(ctx).
		Where(&runRow{ID: run.ID}).
		Assign(row).
		FirstOrCreate(&runRow{}).Error
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}
	var row runRow
	err = db.WithContext(ctx).Where(&runRow{ID: id}).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	return Run{ID: row.ID, Seed: row.Seed, StartedAt: row.StartedAt, ConfigYAML: row.ConfigYAML}, true, nil
}

func (s *PostgresStore) SaveGeneration(ctx context.Context, runID string, stats telemetry.GenerationStats) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if err := requireRunGorm(ctx, db, runID); err != nil {
		return err
	}
	payload, err := EncodeGeneration(stats)
	if err != nil {
		return err
	}
	row := generationRow{
		RunID:       runID,
		Generation:  stats.Generation,
		Tick:        stats.Tick,
		Deliveries:  stats.Deliveries,
		BestFitness: stats.BestFitness,
		MeanFitness: stats.MeanFitness,
		Payload:     payload,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

func (s *PostgresStore) ListGenerations(ctx context.Context, runID string) ([]telemetry.GenerationStats, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if err := requireRunGorm(ctx, db, runID); err != nil {
		return nil, err
	}

	rows := []generationRow{}
	err = db.WithContext(ctx).
		Where(&generationRow{RunID: runID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "generation"}}},
		}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]telemetry.GenerationStats, 0, len(rows))
	for _, row := range rows {
		stats, err := DecodeGeneration(row.Payload)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		out = append(out, stats)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}

func (s *PostgresStore) getDB() (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func requireRunGorm(ctx context.Context, db *gorm.DB, runID string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&runRow{}).Where(&runRow{ID: runID}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
