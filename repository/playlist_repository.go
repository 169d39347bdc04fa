package repository

import (
	"context"
	"time"

	"MePlay/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistRepository 歌单数据访问接口
type PlaylistRepository interface {
	// 歌单 CRUD
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByIDForUser(ctx context.Context, id string, userID int64) (*model.Playlist, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Playlist, error)
	Delete(ctx context.Context, id string) error

	// 歌曲管理
	AddSong(ctx context.Context, playlistID string, songID int64) (bool, error)
	RemoveSong(ctx context.Context, playlistID string, songID int64) (bool, error)
}

// gormPlaylistRepository GORM 实现
type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewGormPlaylistRepository 创建 GORM 歌单仓库
func NewGormPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

// ========== 歌单 CRUD ==========

// Create 创建歌单, 未指定 ID 时生成 UUID
func (r *gormPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(playlist).Error
}

// GetByIDForUser 获取用户自己的歌单, 不存在时返回 nil, nil
func (r *gormPlaylistRepository) GetByIDForUser(ctx context.Context, id string, userID int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&playlist).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &playlist, nil
}

// ListByUser 获取用户的歌单及歌曲数量, 按创建时间倒序
func (r *gormPlaylistRepository) ListByUser(ctx context.Context, userID int64) ([]model.Playlist, error) {
	playlists := make([]model.Playlist, 0)
	err := r.db.WithContext(ctx).Model(&model.Playlist{}).
		Select("playlists.*, (SELECT COUNT(*) FROM playlist_songs ps WHERE ps.playlist_id = playlists.id) AS song_count").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&playlists).Error
	return playlists, err
}

// Delete 删除歌单: 先删成员, 再删歌单, 同一事务
func (r *gormPlaylistRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Playlist{}).Error
	})
}

// ========== 歌曲管理 ==========

// AddSong 添加歌曲, 已存在时返回 false
func (r *gormPlaylistRepository) AddSong(ctx context.Context, playlistID string, songID int64) (bool, error) {
	row := model.PlaylistSong{PlaylistID: playlistID, SongID: songID, AddedAt: time.Now()}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, r.touch(ctx, playlistID)
}

// RemoveSong 移除歌曲, 不在歌单中时返回 false
func (r *gormPlaylistRepository) RemoveSong(ctx context.Context, playlistID string, songID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&model.PlaylistSong{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, r.touch(ctx, playlistID)
}

func (r *gormPlaylistRepository) touch(ctx context.Context, playlistID string) error {
	return r.db.WithContext(ctx).Model(&model.Playlist{}).
		Where("id = ?", playlistID).
		Update("updated_at", time.Now()).Error
}
