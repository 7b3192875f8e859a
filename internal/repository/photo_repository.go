package repository

import (
	"database/sql"

	"ridelog_backend/internal/model"
	"ridelog_backend/internal/util"

	"gorm.io/gorm"
)

type PhotoRepository struct {
	DB *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

func (r *PhotoRepository) Create(photo *model.TripPhoto) error {
	return r.DB.Create(photo).Error
}

func (r *PhotoRepository) FindByID(id uint) (*model.TripPhoto, error) {
	var photo model.TripPhoto
	err := r.DB.First(&photo, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrPhotoNotFound
	}
	return &photo, err
}

func (r *PhotoRepository) ListByTrip(tripID uint) ([]model.TripPhoto, error) {
	var photos []model.TripPhoto
	err := r.DB.Where("trip_id = ?", tripID).
		Order("position ASC").
		Find(&photos).Error
	return photos, err
}

func (r *PhotoRepository) CountByTrip(tripID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TripPhoto{}).
		Where("trip_id = ?", tripID).
		Count(&count).Error
	return count, err
}

func (r *PhotoRepository) NextPosition(tripID uint) (int, error) {
	var max sql.NullInt64
	err := r.DB.Model(&model.TripPhoto{}).
		Where("trip_id = ?", tripID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 1, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *PhotoRepository) UpdateCaption(photoID uint, caption string) error {
	return r.DB.Model(&model.TripPhoto{}).
		Where("id = ?", photoID).
		Update("caption", caption).Error
}

// Reorder 按给定的照片 ID 顺序重排。先挪到负区间再落位，避开 (trip_id, position) 唯一约束
func (r *PhotoRepository) Reorder(tripID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			res := tx.Model(&model.TripPhoto{}).
				Where("id = ? AND trip_id = ?", id, tripID).
				Update("position", -(i + 1))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return util.ErrPhotoNotFound
			}
		}
		return tx.Model(&model.TripPhoto{}).
			Where("trip_id = ? AND position < 0", tripID).
			Update("position", gorm.Expr("-position")).Error
	})
}

// Delete 物理删除，软删除的行仍占用 (trip_id, position) 唯一索引
func (r *PhotoRepository) Delete(photoID uint) error {
	return r.DB.Unscoped().Delete(&model.TripPhoto{}, photoID).Error
}
