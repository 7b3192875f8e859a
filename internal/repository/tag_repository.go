package repository

import (
	"ridelog_backend/internal/model"

	"gorm.io/gorm"
)

type TagRepository struct {
	DB *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{DB: db}
}

func (r *TagRepository) FindByNormalizedName(normalized string) (*model.Tag, error) {
	var tag model.Tag
	err := r.DB.Where("normalized_name = ?", normalized).First(&tag).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindOrCreate 以规范化名称为键获取或创建标签
func (r *TagRepository) FindOrCreate(name, normalized string) (*model.Tag, error) {
	tag, err := r.FindByNormalizedName(normalized)
	if err != nil {
		return nil, err
	}
	if tag != nil {
		return tag, nil
	}

	tag = &model.Tag{Name: name, NormalizedName: normalized}
	if err := r.DB.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *TagRepository) ListByTrip(tripID uint) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.DB.
		Joins("JOIN trip_tags ON trip_tags.tag_id = tags.id").
		Where("trip_tags.trip_id = ?", tripID).
		Find(&tags).Error
	return tags, err
}

func (r *TagRepository) Attach(tripID, tagID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.TripTag{TripID: tripID, TagID: tagID}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Tag{}).
			Where("id = ?", tagID).
			Update("usage_count", gorm.Expr("usage_count + 1")).Error
	})
}

func (r *TagRepository) IsAttached(tripID, tagID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.TripTag{}).
		Where("trip_id = ? AND tag_id = ?", tripID, tagID).
		Count(&count).Error
	return count > 0, err
}

func (r *TagRepository) CountByTrip(tripID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TripTag{}).
		Where("trip_id = ?", tripID).
		Count(&count).Error
	return count, err
}

func (r *TagRepository) Detach(tripID, tagID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("trip_id = ? AND tag_id = ?", tripID, tagID).Delete(&model.TripTag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.Tag{}).
			Where("id = ? AND usage_count > 0", tagID).
			Update("usage_count", gorm.Expr("usage_count - 1")).Error
	})
}

func (r *TagRepository) ListPopular(limit int) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.DB.Where("usage_count > 0").
		Order("usage_count DESC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

// ReconcileUsageCounts 按关联表重算 usage_count，兜底修正计数漂移
func (r *TagRepository) ReconcileUsageCounts() error {
	return r.DB.Exec(`
		UPDATE tags SET usage_count = (
			SELECT COUNT(*) FROM trip_tags WHERE trip_tags.tag_id = tags.id
		)
	`).Error
}
