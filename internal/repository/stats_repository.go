package repository

import (
	"ridelog_backend/internal/model"

	"gorm.io/gorm"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) GetOrCreate(userID uint) (*model.UserStats, error) {
	stats := &model.UserStats{UserID: userID}
	err := r.DB.Where("user_id = ?", userID).FirstOrCreate(stats).Error
	return stats, err
}

func (r *StatsRepository) GetByUserID(userID uint) (*model.UserStats, error) {
	var stats model.UserStats
	err := r.DB.Where("user_id = ?", userID).First(&stats).Error
	if err == gorm.ErrRecordNotFound {
		return &model.UserStats{UserID: userID}, nil
	}
	return &stats, err
}

// Increment 对若干统计列做原子增减，负值自动钳为 0
func (r *StatsRepository) Increment(userID uint, deltas map[string]float64) error {
	if _, err := r.GetOrCreate(userID); err != nil {
		return err
	}

	updates := make(map[string]interface{}, len(deltas))
	for column, delta := range deltas {
		if delta < 0 {
			// CASE 写法在 sqlite/postgres/mysql 下都可用
			updates[column] = gorm.Expr(
				"CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END",
				delta, delta)
		} else {
			updates[column] = gorm.Expr(column+" + ?", delta)
		}
	}

	return r.DB.Model(&model.UserStats{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}

// Leaderboard 按累计骑行距离的排行榜
func (r *StatsRepository) Leaderboard(limit int) ([]model.UserStats, error) {
	var entries []model.UserStats
	err := r.DB.Order("total_distance_m DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
