package models

import "time"

// Like represents a like on a comment by a device. The composite unique
// index keeps concurrent toggles from double-inserting for the same pair.
type Like struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CommentID string    `json:"comment_id" gorm:"type:uuid;index;uniqueIndex:idx_comment_device_like"`
	DeviceID  string    `json:"device_id" gorm:"index;uniqueIndex:idx_comment_device_like"`
	CreatedAt time.Time `json:"created_at"`
}
