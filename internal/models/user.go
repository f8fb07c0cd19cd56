package models

import "time"

// User holds one row per device identity. CurrentUsername is overwritten
// whenever a comment is posted with a different display name under the
// same device id.
type User struct {
	DeviceID        string    `json:"device_id" gorm:"primaryKey"`
	CurrentUsername string    `json:"current_username"`
	CreatedAt       time.Time `json:"created_at"`
}
