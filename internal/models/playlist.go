package models

import "time"

// Playlist is a named, ordered collection of tracks owned by one user.
type Playlist struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"owner" gorm:"type:varchar(36);not null;uniqueIndex:idx_playlist_owner_name"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_playlist_owner_name"`
	IsPublic  bool      `json:"is_public" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// PlaylistTrack is a membership row. Rows are ordered by Order, then AddedAt.
type PlaylistTrack struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PlaylistID string    `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_playlist_track"`
	TrackID    string    `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_playlist_track;index"`
	Order      int       `json:"order" gorm:"column:sort_order;not null;default:0"`
	AddedAt    time.Time `json:"added_at" gorm:"not null"`

	Playlist *Playlist `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Track    *Track    `json:"track,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// PlaylistDetail is a playlist together with its ordered membership rows.
type PlaylistDetail struct {
	Playlist
	Tracks []PlaylistTrack `json:"tracks"`
}
