package models

import "time"

// User is an account that can author posts and comments. Passwords are stored as bcrypt hashes only.
type User struct {
	UserID       int64     `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"type:datetime(6);not null;autoCreateTime:false" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Identity is the authenticated caller of a request. The zero value means unauthenticated.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Authenticated reports whether the identity carries a user.
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}
