package model

import "time"

// 成就阈值的统计维度
type AchievementKind string

const (
	KindPublishedTrips AchievementKind = "published_trips"
	KindTotalDistance  AchievementKind = "total_distance_m"
	KindTotalElevation AchievementKind = "total_elevation_m"
	KindFollowers      AchievementKind = "followers"
)

// Achievement 成就定义（目录由种子数据维护）
type Achievement struct {
	BaseModel
	Code        string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	Icon        string          `gorm:"size:255" json:"icon"`
	Kind        AchievementKind `gorm:"size:30;not null" json:"kind"`
	Threshold   float64         `gorm:"not null" json:"threshold"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement 用户已获得的成就，(user_id, achievement_id) 唯一保证幂等
type UserAchievement struct {
	ID            uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint        `gorm:"uniqueIndex:idx_user_achievement;index;not null" json:"userId"`
	AchievementID uint        `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievementId"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
	EarnedAt      time.Time   `gorm:"autoCreateTime" json:"earnedAt"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
