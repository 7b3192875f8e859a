package repository

import (
	"ridelog_backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) ListAll() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("threshold ASC").Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepository) FindByCode(code string) (*model.Achievement, error) {
	var achievement model.Achievement
	err := r.DB.Where("code = ?", code).First(&achievement).Error
	return &achievement, err
}

func (r *AchievementRepository) Create(a *model.Achievement) error {
	return r.DB.Create(a).Error
}

func (r *AchievementRepository) Update(a *model.Achievement) error {
	return r.DB.Save(a).Error
}

func (r *AchievementRepository) ListByUser(userID uint) ([]model.UserAchievement, error) {
	var earned []model.UserAchievement
	err := r.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned).Error
	return earned, err
}

func (r *AchievementRepository) HasEarned(userID, achievementID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	return count > 0, err
}

// Award 颁发成就。唯一索引兜底并发下的重复颁发
func (r *AchievementRepository) Award(userID, achievementID uint) error {
	earned, err := r.HasEarned(userID, achievementID)
	if err != nil {
		return err
	}
	if earned {
		return nil
	}
	return r.DB.Create(&model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
	}).Error
}
