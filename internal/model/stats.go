package model

import "time"

// UserStats 用户维度的冗余统计，随写事件同事务维护
type UserStats struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID         uint      `gorm:"uniqueIndex;not null" json:"userId"`
	TripCount      int64     `gorm:"default:0" json:"tripCount"`
	PublishedCount int64     `gorm:"default:0" json:"publishedCount"`
	PhotoCount     int64     `gorm:"default:0" json:"photoCount"`
	// 单位：米 / 秒
	TotalDistanceM  float64   `gorm:"default:0" json:"totalDistanceM"`
	TotalElevationM float64   `gorm:"default:0" json:"totalElevationM"`
	TotalMovingSec  int64     `gorm:"default:0" json:"totalMovingSeconds"`
	FollowerCount   int64     `gorm:"default:0" json:"followerCount"`
	FollowingCount  int64     `gorm:"default:0" json:"followingCount"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
