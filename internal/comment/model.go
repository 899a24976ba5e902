package comment

import "time"

// Comment is feedback left on an event. IsApproved gates public visibility;
// it only ever moves from false to true.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Rating     *int      `json:"rating"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	EventID    uint      `gorm:"not null;index" json:"event_id"`
	IsApproved bool      `gorm:"not null;index" json:"is_approved"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentResponse adds the commenter's display name.
type CommentResponse struct {
	Comment
	UserName string `json:"user_name"`
}

type CreateRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
	Rating  *int   `json:"rating" binding:"omitempty,min=1,max=5"`
}

// UpdateRequest is a partial patch; nil fields are kept.
type UpdateRequest struct {
	Content *string `json:"content" binding:"omitempty,min=1,max=5000"`
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
}
