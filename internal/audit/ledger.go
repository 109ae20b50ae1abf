// Package audit records configuration-change transitions (FIG 0/7
// fingerprint changes) to a local SQLite ledger, adapted from the
// teacher's pure-Go GORM + modernc.org/sqlite database layer.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"

	"github.com/magicbadger/dabmux/internal/obslog"
)

// Transition is one row of the configuration-change ledger: the
// ensemble's generation counter and FIG 0/7 fingerprint observed at a
// point in time.
type Transition struct {
	ID          uint `gorm:"primarykey"`
	ObservedAt  time.Time
	Generation  uint64
	Fingerprint uint16
	Reason      string
}

// Ledger wraps the GORM database connection that records Transitions.
type Ledger struct {
	db  *gorm.DB
	log *obslog.Logger
}

// Config holds the ledger's storage configuration.
type Config struct {
	Path string // path to the SQLite database file
}

// Open creates (or reopens) the configuration-change ledger, enabling
// WAL mode for concurrent reads while the producer appends writes.
func Open(cfg Config, log *obslog.Logger) (*Ledger, error) {
	if cfg.Path == "" {
		cfg.Path = "dabmux-audit.db"
	}
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("audit: create database directory: %w", err)
		}
	}

	gormLog := gormlogger.New(
		&gormLogAdapter{log: log},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	dialector := sqlite.Dialector{DriverName: "sqlite", DSN: cfg.Path}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("audit: get database handle: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("audit: enable WAL mode: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("audit: set synchronous mode: %w", err)
	}

	if err := db.AutoMigrate(&Transition{}); err != nil {
		return nil, fmt.Errorf("audit: migrate schema: %w", err)
	}

	return &Ledger{db: db, log: log}, nil
}

// Record appends one configuration-change transition.
func (l *Ledger) Record(generation uint64, fingerprint uint16, reason string) error {
	t := Transition{
		ObservedAt:  time.Now(),
		Generation:  generation,
		Fingerprint: fingerprint,
		Reason:      reason,
	}
	if err := l.db.Create(&t).Error; err != nil {
		l.log.Error("audit: failed to record transition", obslog.Err(err))
		return err
	}
	return nil
}

// Recent returns the most recent n transitions, newest first.
func (l *Ledger) Recent(n int) ([]Transition, error) {
	var out []Transition
	err := l.db.Order("id desc").Limit(n).Find(&out).Error
	return out, err
}

func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
