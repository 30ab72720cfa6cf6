package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"id"`
	Username     string    `gorm:"uniqueIndex;size:191;not null" bson:"username"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" bson:"email"`
	FullName     string    `gorm:"size:255" bson:"full_name"`
	Role         string    `gorm:"size:32;not null;default:user;index" bson:"role"`
	PasswordHash string    `gorm:"size:255;not null" bson:"hashed_password"`
	IsActive     bool      `gorm:"not null;default:true" bson:"is_active"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
