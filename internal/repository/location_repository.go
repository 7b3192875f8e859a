package repository

import (
	"ridelog_backend/internal/model"

	"gorm.io/gorm"
)

type LocationRepository struct {
	DB *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{DB: db}
}

func (r *LocationRepository) ListByTrip(tripID uint) ([]model.TripLocation, error) {
	var locations []model.TripLocation
	err := r.DB.Where("trip_id = ?", tripID).
		Order("position ASC").
		Find(&locations).Error
	return locations, err
}

func (r *LocationRepository) CountByTrip(tripID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TripLocation{}).
		Where("trip_id = ?", tripID).
		Count(&count).Error
	return count, err
}

// ReplaceForTrip 整组替换行程地点
func (r *LocationRepository) ReplaceForTrip(tripID uint, locations []model.TripLocation) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("trip_id = ?", tripID).Delete(&model.TripLocation{}).Error; err != nil {
			return err
		}
		for i := range locations {
			locations[i].ID = 0
			locations[i].TripID = tripID
			locations[i].Position = i + 1
			if err := tx.Create(&locations[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
