package comment

import (
	"context"

	"github.com/sharath018/eventify-backend/internal/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id uint) (*Comment, error)
	GetWithAuthor(ctx context.Context, id uint) (*CommentResponse, error)
	Save(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id uint) error
	ListApproved(ctx context.Context, eventID uint, page pagination.Page) ([]CommentResponse, error)
	ListPending(ctx context.Context, page pagination.Page) ([]CommentResponse, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Comment, error) {
	var c Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&Comment{}).
		Select("comments.*, users.full_name AS user_name").
		Joins("JOIN users ON users.id = comments.user_id")
}

func (r *repository) GetWithAuthor(ctx context.Context, id uint) (*CommentResponse, error) {
	var out CommentResponse
	res := r.withAuthor(ctx).Where("comments.id = ?", id).Limit(1).Scan(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &out, nil
}

// Save writes every column so false/nil values are persisted.
func (r *repository) Save(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Comment{}, id).Error
}

func (r *repository) ListApproved(ctx context.Context, eventID uint, page pagination.Page) ([]CommentResponse, error) {
	var out []CommentResponse
	err := r.withAuthor(ctx).
		Where("comments.event_id = ? AND comments.is_approved = ?", eventID, true).
		Order("comments.created_at ASC, comments.id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Scan(&out).Error
	return out, err
}

func (r *repository) ListPending(ctx context.Context, page pagination.Page) ([]CommentResponse, error) {
	var out []CommentResponse
	err := r.withAuthor(ctx).
		Where("comments.is_approved = ?", false).
		Order("comments.created_at ASC, comments.id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Scan(&out).Error
	return out, err
}
