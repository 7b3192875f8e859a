package repository

import (
	"context"
	"fmt"
	"time"

	"ridelog_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type FollowRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewFollowRepository(db *gorm.DB, rdb *redis.Client) *FollowRepository {
	return &FollowRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func followingCacheKey(userID uint) string {
	return fmt.Sprintf("social:following:%d", userID)
}

func (r *FollowRepository) Create(f *model.Follow) error {
	err := r.DB.Create(f).Error
	if err == nil && r.Redis != nil {
		r.Redis.Del(r.ctx, followingCacheKey(f.FollowerID))
	}
	return err
}

func (r *FollowRepository) Delete(followerID, followingID uint) (bool, error) {
	res := r.DB.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 && r.Redis != nil {
		r.Redis.Del(r.ctx, followingCacheKey(followerID))
	}
	return res.RowsAffected > 0, nil
}

func (r *FollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowingIDs 用户关注的 ID 列表
func (r *FollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}

// GetFollowingIDsCached 关注 ID 列表 (带缓存)，信息流使用
func (r *FollowRepository) GetFollowingIDsCached(userID uint) ([]uint, error) {
	if r.Redis == nil {
		return r.GetFollowingIDs(userID)
	}

	key := followingCacheKey(userID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		var ids []uint
		for _, s := range cached {
			var id uint
			fmt.Sscanf(s, "%d", &id)
			if id > 0 {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	// 缓存失效，回源数据库
	ids, err := r.GetFollowingIDs(userID)
	if err == nil && len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	} else if err == nil {
		// 防止缓存穿透：存哨兵值并设置短过期时间
		r.Redis.SAdd(r.ctx, key, 0)
		r.Redis.Expire(r.ctx, key, 5*time.Minute)
	}
	return ids, err
}

func (r *FollowRepository) ListFollowers(userID uint, limit, offset int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.DB.Model(&model.Follow{}).
		Where("following_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Select("users.id, users.name, users.avatar").
		Table("users").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, total, err
}

func (r *FollowRepository) ListFollowing(userID uint, limit, offset int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.DB.Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Select("users.id, users.name, users.avatar").
		Table("users").
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, total, err
}
