package models

import "time"

// User is an account of the catalog. Accounts are created inactive and activated by
// email verification.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(150);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash
	Nickname  string    `json:"nickname" gorm:"type:varchar(30)"`
	Avatar    string    `json:"avatar" gorm:"type:varchar(255)"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:false"`
	IsStaff   bool      `json:"is_staff" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
