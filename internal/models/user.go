package models

import "time"

// User is a sandbox account. Token is the opaque credential handed out by
// the authenticate endpoint.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:text;uniqueIndex" json:"username"`
	Email        string    `gorm:"type:text;uniqueIndex" json:"email"`
	FirstName    string    `gorm:"type:text" json:"first_name"`
	LastName     string    `gorm:"type:text" json:"last_name"`
	PasswordHash string    `gorm:"type:text" json:"-"`
	Token        string    `gorm:"type:text;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// SessionEntry is one origin-scoped key of the client credential store.
type SessionEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Origin    string    `gorm:"type:text;not null;uniqueIndex:idx_session_origin_key"`
	Name      string    `gorm:"type:text;not null;uniqueIndex:idx_session_origin_key"`
	Value     string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SessionEntry) TableName() string {
	return "session_entries"
}
