package entity

import "time"

// User represents an authenticated principal known to the system
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	LarkOpenID  string    `json:"lark_open_id,omitempty"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Identity is the verified acting-user context supplied by the identity provider
type Identity struct {
	SubjectID     int64  `json:"subject_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}
