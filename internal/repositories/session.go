package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/cv-screener/internal/models"
)

type SessionRepository interface {
	Get(origin, key string) (string, bool, error)
	Upsert(origin, key, value string) error
	Delete(origin string, keys ...string) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(origin, key string) (string, bool, error) {
	var entry models.SessionEntry
	err := r.db.Where("origin = ? AND name = ?", origin, key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (r *sessionRepository) Upsert(origin, key, value string) error {
	now := time.Now()
	entry := models.SessionEntry{
		Origin:    origin,
		Name:      key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "origin"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}

func (r *sessionRepository) Delete(origin string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.db.Where("origin = ? AND name IN ?", origin, keys).Delete(&models.SessionEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session keys: %w", err)
	}
	return nil
}
