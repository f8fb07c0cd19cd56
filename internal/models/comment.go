package models

import "time"

// Comment represents a single comment attached to a normalized page URL.
// A non-nil ParentID makes it a reply; replies are rendered one level deep.
type Comment struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	URL         string    `json:"url" gorm:"index"` // normalized page URL, the grouping key
	Content     string    `json:"content"`
	DeviceID    string    `json:"device_id" gorm:"index"`
	DisplayName string    `json:"display_name"`
	ParentID    *string   `json:"parent_id" gorm:"type:uuid;index"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommentView is a thread node: a comment annotated with like aggregates
// and its direct replies.
type CommentView struct {
	Comment
	LikesCount int64         `json:"likes_count"`
	IsLiked    bool          `json:"is_liked"`
	Replies    []CommentView `json:"replies"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	URL         string  `json:"url" validate:"required,max=2048,url"`
	Content     string  `json:"content" validate:"required,min=1,max=1000"`
	DisplayName string  `json:"display_name" validate:"required,min=1,max=50,displayname"`
	DeviceID    string  `json:"device_id" validate:"required,min=1,max=100"`
	ParentID    *string `json:"parent_id" validate:"omitempty,uuid4"`
}

// ToggleLikeRequest defines the request body for toggling a like
type ToggleLikeRequest struct {
	DeviceID string `json:"device_id" validate:"required,min=1,max=100"`
}

// DeleteCommentRequest defines the request body for deleting a comment
type DeleteCommentRequest struct {
	DeviceID string `json:"device_id" validate:"required,min=1,max=100"`
}
