package models

import "time"

// Track is a catalog entry. The audio object key is never serialized; clients only
// receive signed URLs for it.
type Track struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title        string    `json:"title" gorm:"type:varchar(200);not null;index"`
	Artist       string    `json:"artist" gorm:"type:varchar(120);not null;index"`
	Genre        string    `json:"genre" gorm:"type:varchar(80);index"`
	ThumbnailURL string    `json:"thumbnail_url" gorm:"type:varchar(500)"`
	AudioKey     string    `json:"-" gorm:"column:audio_s3_key;type:varchar(255)"`
	DurationSec  int       `json:"duration_sec" gorm:"not null;default:0"`
	IsPublished  bool      `json:"is_published" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time `json:"updated_at"`
}
