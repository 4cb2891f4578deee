package models

import "time"

// Favorite marks a track as liked by a user. A (user, track) pair exists at most once.
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_track"`
	TrackID   string    `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_track;index"`
	CreatedAt time.Time `json:"created_at"`

	User  *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Track *Track `json:"track,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}
