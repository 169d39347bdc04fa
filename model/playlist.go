package model

import "time"

// Playlist is a named, user-owned, ordered collection of track references.
type Playlist struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	UserID      int64     `json:"user_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	SongCount   int64     `json:"song_count" gorm:"->;-:migration"` // 只读, filled by the listing query
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistSong is one membership row. (playlist_id, song_id) is unique, which
// is what rejects duplicates at the durable tier.
type PlaylistSong struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PlaylistID string    `json:"playlist_id" gorm:"size:36;not null;uniqueIndex:uq_playlist_song"`
	SongID     int64     `json:"song_id" gorm:"not null;uniqueIndex:uq_playlist_song"`
	AddedAt    time.Time `json:"added_at" gorm:"index"`
}

// TableName 指定表名
func (PlaylistSong) TableName() string {
	return "playlist_songs"
}
