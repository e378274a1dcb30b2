/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package store persists games, players, scenarios and turns through gorm
// on SQLite.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Seednode/truthordare/games"
)

// Store is the gorm-backed backend for the HTTP API.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&Scenario{},
		&Game{},
		&Player{},
		&PlayerProfile{},
		&GeneratedItem{},
		&Turn{},
	); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func newID() string {
	return uuid.NewString()
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return games.NotFoundf(format, args...)
	}

	return err
}

// ListScenarios returns every scenario, newest first.
func (s *Store) ListScenarios(ctx context.Context) ([]Scenario, error) {
	var scenarios []Scenario

	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id ASC").
		Find(&scenarios).Error
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}

	return scenarios, nil
}

func (s *Store) GetScenario(ctx context.Context, id string) (Scenario, error) {
	var scenario Scenario

	err := s.db.WithContext(ctx).First(&scenario, "id = ?", id).Error
	if err != nil {
		return Scenario{}, notFound(err, "scenario %q not found", id)
	}

	return scenario, nil
}

// NewScenario is the input for CreateScenario.
type NewScenario struct {
	Name        string
	Description string
	Tone        string
	IsAdult     bool
}

func (s *Store) CreateScenario(ctx context.Context, in NewScenario) (Scenario, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Scenario{}, games.Validationf("scenario name is required")
	}

	tone, err := ParseTone(in.Tone)
	if err != nil {
		return Scenario{}, err
	}

	scenario := Scenario{
		ID:          newID(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Tone:        tone,
		IsAdult:     in.IsAdult,
	}

	if err := s.db.WithContext(ctx).Create(&scenario).Error; err != nil {
		return Scenario{}, fmt.Errorf("create scenario: %w", err)
	}

	return scenario, nil
}

// catalogTones maps the built-in scenarios onto backend tones.
var catalogTones = map[games.Difficulty]Tone{
	games.DifficultyEasy:   ToneClassic,
	games.DifficultyMedium: ToneDeep,
	games.DifficultyHard:   ToneWild,
}

// SeedScenarios copies the built-in catalog into an empty scenarios table,
// keeping the catalog ids. It returns how many rows were written.
func (s *Store) SeedScenarios(ctx context.Context, catalog []games.Scenario) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Scenario{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count scenarios: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	rows := make([]Scenario, 0, len(catalog))
	for _, c := range catalog {
		rows = append(rows, Scenario{
			ID:          c.ID,
			Name:        c.Title,
			Description: c.Description,
			Tone:        catalogTones[c.Difficulty],
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("seed scenarios: %w", err)
	}

	return len(rows), nil
}
