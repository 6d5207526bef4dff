package syncreport

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// TickChecksum is one recorded logic state digest
type TickChecksum struct {
	Tick      int64 `gorm:"primaryKey;autoIncrement:false"`
	Checksum  int64 `gorm:"not null"`
	Actors    int   `gorm:"not null"`
	CreatedAt time.Time
}

// TableName keeps the table name stable across struct renames
func (TickChecksum) TableName() string { return "tick_checksums" }

// Store persists per-tick checksums to sqlite for desync diagnosis
type Store struct {
	db     *gorm.DB
	path   string
	logger zerolog.Logger
}

// Open opens or creates a checksum database; empty path is a private in-memory database
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("sync store open failed")
		return nil, fmt.Errorf("opening sync store: %w", err)
	}

	// Each connection to :memory: is a separate database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sync store handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&TickChecksum{}); err != nil {
		_ = sqlDB.Close()
		log.Error().Err(err).Msg("sync store migration failed")
		return nil, fmt.Errorf("migrating sync store: %w", err)
	}

	log.Debug().Str("path", dsn).Msg("sync store opened")
	return &Store{db: db, path: path, logger: log}, nil
}

// Record stores the checksum for a tick, replacing an earlier record of the same tick
func (s *Store) Record(tick uint64, sum uint64, actors int) error {
	row := TickChecksum{
		Tick:     int64(tick),
		Checksum: int64(sum),
		Actors:   actors,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tick"}},
		DoUpdates: clause.AssignmentColumns([]string{"checksum", "actors", "created_at"}),
	}).Create(&row).Error
	if err != nil {
		s.logger.Error().Err(err).Uint64("tick", tick).Msg("sync record failed")
		return fmt.Errorf("recording tick %d: %w", tick, err)
	}
	return nil
}

// Checksum returns the recorded checksum of a tick
func (s *Store) Checksum(tick uint64) (uint64, bool, error) {
	var row TickChecksum
	err := s.db.Where("tick = ?", int64(tick)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading tick %d: %w", tick, err)
	}
	return uint64(row.Checksum), true, nil
}

// Count returns the number of recorded ticks
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&TickChecksum{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// FirstDivergence returns the earliest tick recorded by both stores whose
// checksums differ
func (s *Store) FirstDivergence(other *Store) (uint64, bool, error) {
	theirs, err := other.all()
	if err != nil {
		return 0, false, err
	}
	byTick := make(map[int64]int64, len(theirs))
	for _, r := range theirs {
		byTick[r.Tick] = r.Checksum
	}

	ours, err := s.all()
	if err != nil {
		return 0, false, err
	}
	for _, r := range ours {
		if sum, ok := byTick[r.Tick]; ok && sum != r.Checksum {
			return uint64(r.Tick), true, nil
		}
	}
	return 0, false, nil
}

func (s *Store) all() ([]TickChecksum, error) {
	var rows []TickChecksum
	if err := s.db.Order("tick asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return rows, nil
}

// Close releases the database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
