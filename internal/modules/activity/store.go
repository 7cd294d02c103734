package activity

import (
	"time"

	"github.com/code-injection/core/internal/models"
	"gorm.io/gorm"
)

// Store is the activity persistence collaborator. The engine only ever
// inserts, counts duplicates, and reads windows; retention is someone
// else's job.
type Store interface {
	InsertEvent(ev *models.ActivityModel) error
	CountMatching(ev *models.ActivityModel, from, to time.Time) (int64, error)
	QueryWindow(identifier string, from, to time.Time) ([]models.ActivityModel, error)
}

// GormStore implements Store on a gorm connection.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) InsertEvent(ev *models.ActivityModel) error {
	return s.db.Create(ev).Error
}

// CountMatching counts events identical to ev in every tuple field within
// [from, to]. Nullable fields match on IS NULL when unset.
func (s *GormStore) CountMatching(ev *models.ActivityModel, from, to time.Time) (int64, error) {
	tx := s.db.Model(&models.ActivityModel{}).
		Where("event_kind = ?", ev.EventKind).
		Where("tenant = ?", ev.Tenant).
		Where("time BETWEEN ? AND ?", from, to)

	tx = whereNullable(tx, "viewer_id", ev.ViewerID)
	tx = whereNullable(tx, "ip", ev.IP)
	tx = whereNullable(tx, "source_post_id", ev.SourcePostID)
	tx = whereNullable(tx, "code_identifier", ev.CodeIdentifier)

	var count int64
	err := tx.Count(&count).Error
	return count, err
}

func (s *GormStore) QueryWindow(identifier string, from, to time.Time) ([]models.ActivityModel, error) {
	var items []models.ActivityModel
	err := s.db.
		Where("code_identifier = ?", identifier).
		Where("time BETWEEN ? AND ?", from, to).
		Order("time ASC").
		Find(&items).Error
	return items, err
}

func whereNullable(tx *gorm.DB, column string, value *string) *gorm.DB {
	if value == nil {
		return tx.Where(column + " IS NULL")
	}
	return tx.Where(column+" = ?", *value)
}
