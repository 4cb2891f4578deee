package models

import "time"

// PlayHistory is an append-only record of a stream link issued to a user.
type PlayHistory struct {
	ID       string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID   string    `json:"-" gorm:"type:varchar(36);not null;index:idx_history_user_played"`
	TrackID  string    `json:"-" gorm:"type:varchar(36);not null;index"`
	PlayedAt time.Time `json:"played_at" gorm:"not null;index:idx_history_user_played"`

	User  *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Track *Track `json:"track,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName keeps the table singular.
func (PlayHistory) TableName() string {
	return "play_history"
}
