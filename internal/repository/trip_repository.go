package repository

import (
	"context"
	"encoding/json"
	"time"

	"ridelog_backend/internal/model"
	"ridelog_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const feedCacheTTL = 2 * time.Minute

type TripRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewTripRepository(db *gorm.DB, rdb *redis.Client) *TripRepository {
	return &TripRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *TripRepository) Create(trip *model.Trip) error {
	return r.DB.Create(trip).Error
}

func (r *TripRepository) FindByID(id uint) (*model.Trip, error) {
	var trip model.Trip
	err := r.DB.First(&trip, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrTripNotFound
	}
	return &trip, err
}

func (r *TripRepository) FindByIDFull(id uint) (*model.Trip, error) {
	var trip model.Trip
	err := r.DB.
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Locations", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Tags").
		Preload("Route").
		Preload("User").
		First(&trip, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrTripNotFound
	}
	return &trip, err
}

// UpdateVersioned 乐观锁更新：版本不匹配时返回 ErrVersionConflict
func (r *TripRepository) UpdateVersioned(trip *model.Trip, version int, updates map[string]interface{}) error {
	updates["version"] = version + 1
	res := r.DB.Model(&model.Trip{}).
		Where("id = ? AND version = ?", trip.ID, version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrVersionConflict
	}
	return nil
}

func (r *TripRepository) Delete(tripID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", tripID).Delete(&model.TripPhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", tripID).Delete(&model.TripLocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", tripID).Delete(&model.TripRoute{}).Error; err != nil {
			return err
		}

		// 删除关联前同步扣减标签使用计数，避免依赖定时 Reconcile 兜底
		var tagIDs []uint
		if err := tx.Model(&model.TripTag{}).
			Where("trip_id = ?", tripID).
			Pluck("tag_id", &tagIDs).Error; err != nil {
			return err
		}
		if len(tagIDs) > 0 {
			if err := tx.Model(&model.Tag{}).
				Where("id IN ? AND usage_count > 0", tagIDs).
				Update("usage_count", gorm.Expr("usage_count - 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("trip_id = ?", tripID).Delete(&model.TripTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Trip{}, tripID).Error
	})
}

func (r *TripRepository) ListByUser(userID uint, status model.TripStatus, limit, offset int) ([]model.Trip, int64, error) {
	var trips []model.Trip
	var total int64

	db := r.DB.Model(&model.Trip{}).Where("user_id = ?", userID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&trips).Error
	return trips, total, err
}

// ListPublished 公共信息流：已发布行程按发布时间倒序，可按标签过滤
func (r *TripRepository) ListPublished(tagID uint, limit, offset int) ([]model.Trip, int64, error) {
	var trips []model.Trip
	var total int64

	db := r.DB.Model(&model.Trip{}).
		Where("trips.status = ?", model.TripPublished)

	if tagID != 0 {
		db = db.Joins("JOIN trip_tags ON trip_tags.trip_id = trips.id").
			Where("trip_tags.tag_id = ?", tagID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("User").Preload("Tags").
		Order("trips.published_at DESC").
		Limit(limit).Offset(offset).
		Find(&trips).Error
	return trips, total, err
}

// ListByAuthors 关注流：指定作者集合的已发布行程
func (r *TripRepository) ListByAuthors(authorIDs []uint, limit, offset int) ([]model.Trip, int64, error) {
	var trips []model.Trip
	var total int64

	if len(authorIDs) == 0 {
		return trips, 0, nil
	}

	db := r.DB.Model(&model.Trip{}).
		Where("status = ? AND user_id IN ?", model.TripPublished, authorIDs)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("User").Preload("Tags").
		Order("published_at DESC").
		Limit(limit).Offset(offset).
		Find(&trips).Error
	return trips, total, err
}

// GetCachedFeedPage 公共信息流首页缓存
func (r *TripRepository) GetCachedFeedPage() ([]model.Trip, int64, bool) {
	if r.Redis == nil {
		return nil, 0, false
	}

	raw, err := r.Redis.Get(r.ctx, feedCacheKey()).Result()
	if err != nil {
		return nil, 0, false
	}

	var cached struct {
		Trips []model.Trip `json:"trips"`
		Total int64        `json:"total"`
	}
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, 0, false
	}
	return cached.Trips, cached.Total, true
}

func (r *TripRepository) SetCachedFeedPage(trips []model.Trip, total int64) {
	if r.Redis == nil {
		return
	}

	payload, err := json.Marshal(struct {
		Trips []model.Trip `json:"trips"`
		Total int64        `json:"total"`
	}{trips, total})
	if err != nil {
		return
	}
	r.Redis.Set(r.ctx, feedCacheKey(), payload, feedCacheTTL)
}

// InvalidateFeedCache 发布/撤回后清除首页缓存
func (r *TripRepository) InvalidateFeedCache() {
	if r.Redis == nil {
		return
	}
	r.Redis.Del(r.ctx, feedCacheKey())
}

func feedCacheKey() string {
	return "feed:public:first"
}
