package model

import "time"

// LikedSong is the durable record of one user liking one track.
type LikedSong struct {
	ID      int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID  int64     `json:"user_id" gorm:"not null;uniqueIndex:uq_user_song"`
	SongID  int64     `json:"song_id" gorm:"not null;uniqueIndex:uq_user_song"`
	LikedAt time.Time `json:"liked_at" gorm:"index"`
}

// TableName 指定表名
func (LikedSong) TableName() string {
	return "liked_songs"
}
