package model

import "time"

// User is an account that can log in.
// Role is free text; only "admin" and "staff" route to a panel.
type User struct {
	UserID       uint   `gorm:"column:user_id;primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Role         string `gorm:"type:varchar(32);not null"`
	CreatedAt    time.Time
}

func (User) TableName() string { return "users" }
