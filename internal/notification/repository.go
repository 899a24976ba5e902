package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateInApp(ctx context.Context, items []InAppNotification) error
	ListInAppByUser(ctx context.Context, userID uint, f ListFilter) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID uint) (bool, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateInApp inserts one row per recipient in a single statement.
func (r *repository) CreateInApp(ctx context.Context, items []InAppNotification) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) ListInAppByUser(ctx context.Context, userID uint, f ListFilter) ([]InAppNotification, error) {
	var items []InAppNotification
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	err := q.Order("created_at DESC").Order("id DESC").Limit(f.Limit).Find(&items).Error
	return items, err
}

// MarkInAppAsRead reports whether a row owned by userID matched.
func (r *repository) MarkInAppAsRead(ctx context.Context, id uint, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}
