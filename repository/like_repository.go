package repository

import (
	"context"
	"time"

	"MePlay/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository 点赞数据访问接口
type LikeRepository interface {
	// Like records the like. It reports false when the song was already liked.
	Like(ctx context.Context, userID, songID int64) (bool, error)
	// Unlike removes the like. It reports false when there was nothing to remove.
	Unlike(ctx context.Context, userID, songID int64) (bool, error)
	IsLiked(ctx context.Context, userID, songID int64) (bool, error)
	// ListLikedSongIDs 按点赞时间倒序
	ListLikedSongIDs(ctx context.Context, userID int64) ([]int64, error)
}

// gormLikeRepository GORM 实现
type gormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository 创建 GORM 点赞仓库
func NewGormLikeRepository(db *gorm.DB) LikeRepository {
	return &gormLikeRepository{db: db}
}

func (r *gormLikeRepository) Like(ctx context.Context, userID, songID int64) (bool, error) {
	row := model.LikedSong{UserID: userID, SongID: songID, LikedAt: time.Now()}
	// (user_id, song_id) 唯一, 重复点赞不插入
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormLikeRepository) Unlike(ctx context.Context, userID, songID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&model.LikedSong{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormLikeRepository) IsLiked(ctx context.Context, userID, songID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LikedSong{}).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Count(&count).Error
	return count > 0, err
}

func (r *gormLikeRepository) ListLikedSongIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.LikedSong{}).
		Where("user_id = ?", userID).
		Order("liked_at DESC").Order("id DESC").
		Pluck("song_id", &ids).Error
	return ids, err
}
