package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/greenloop/greenloop/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an authentication audit event.
func (r *Repository) LogEvent(event *entities.AuthEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated auth events, most recent first. A zero userID
// returns events for all users.
func (r *Repository) GetEvents(userID uint, limit, offset int) ([]entities.AuthEvent, int64, error) {
	var events []entities.AuthEvent
	var total int64

	query := r.db.Model(&entities.AuthEvent{})
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes auth events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.AuthEvent{})
	return result.RowsAffected, result.Error
}
