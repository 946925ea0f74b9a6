package inbox

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var (
	ErrUnsupportedDriver = errors.New("unsupported inbox database driver")
	ErrEmptyUserID       = errors.New("user id cannot be empty")
)

// Repository stores and lists inbox records.
type Repository struct {
	db *gorm.DB
}

// Open connects to the inbox database and migrates the schema. driver is
// "postgres" or "sqlite".
func Open(driver, dsn string) (*Repository, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open inbox database: %w", err)
	}
	return NewRepository(db)
}

// NewRepository wraps an existing connection and migrates the schema.
func NewRepository(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate inbox schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Save inserts rec. Saving a notification ID twice is a no-op so redelivered
// messages do not duplicate feed entries.
func (r *Repository) Save(ctx context.Context, rec *Record) error {
	if rec.UserID == "" {
		return ErrEmptyUserID
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "notification_id"}}, DoNothing: true}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to save inbox record %s: %w", rec.NotificationID, err)
	}
	return nil
}

// ListByUser returns the newest records of userID first. limit is clamped to
// (0, MaxListLimit]; zero or negative means DefaultListLimit.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var records []Record
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox for user %s: %w", userID, err)
	}
	return records, nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
