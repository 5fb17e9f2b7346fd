package gormstore

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`      // Unique identifier with auto-increment
	Name      string    `gorm:"size:255;not null"`             // User's display name (required)
	Email     string    `gorm:"size:255;not null;uniqueIndex"` // User's unique email address
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Set once on insert
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Refreshed on every update
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// EnsureSchema verifies connectivity and creates the users table when it is absent.
// It is safe to call on every start.
func EnsureSchema(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	migrator := db.WithContext(ctx).Migrator()
	if migrator.HasTable(&UserSchema{}) {
		log.Debug("users table already present")
		return nil
	}

	if err := migrator.CreateTable(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	log.Info("users table created")
	return nil
}
