package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"task-scheduler/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

func defaultCategories() []model.Category {
	return []model.Category{
		{Name: "Work", Color: "#3b82f6", Icon: strPtr("💼")},
		{Name: "Personal", Color: "#8b5cf6", Icon: strPtr("👤")},
		{Name: "Health", Color: "#10b981", Icon: strPtr("💪")},
		{Name: "Learning", Color: "#f59e0b", Icon: strPtr("📚")},
	}
}

// NewDB opens a SQLite database, runs migrations and seeds default categories.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "task_scheduler.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(withForeignKeys(dsn)), &gorm.Config{
		Logger: dbLogger,
		// Creation timestamps are kept in UTC so their date portion never shifts.
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Tag{},
		&model.Task{},
		&model.Completion{},
		&model.Setting{},
		&model.Subscriber{},
	); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	var existing int64
	if err := db.Model(&model.Category{}).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	// Defaults only go into an empty table, so deleted ones stay deleted.
	if existing == 0 {
		seed := defaultCategories()
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return nil, fmt.Errorf("seed categories: %w", err)
		}
	}

	return db, nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func strPtr(s string) *string { return &s }
