package repository

import (
	"ridelog_backend/internal/model"
	"ridelog_backend/internal/util"

	"gorm.io/gorm"
)

type RouteRepository struct {
	DB *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{DB: db}
}

func (r *RouteRepository) FindByTrip(tripID uint) (*model.TripRoute, error) {
	var route model.TripRoute
	err := r.DB.Where("trip_id = ?", tripID).First(&route).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrRouteNotFound
	}
	return &route, err
}

// Upsert 行程与路线 1:1，重新上传 GPX 时覆盖旧路线
func (r *RouteRepository) Upsert(route *model.TripRoute) error {
	var existing model.TripRoute
	err := r.DB.Where("trip_id = ?", route.TripID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(route).Error
	}
	if err != nil {
		return err
	}

	route.ID = existing.ID
	route.CreatedAt = existing.CreatedAt
	return r.DB.Save(route).Error
}

// DeleteByTrip 物理删除，软删除的行仍占用 trip_id 唯一索引，会卡住后续上传
func (r *RouteRepository) DeleteByTrip(tripID uint) error {
	return r.DB.Unscoped().Where("trip_id = ?", tripID).Delete(&model.TripRoute{}).Error
}
