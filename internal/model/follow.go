package model

import "time"

// Follow 关注关系，(follower_id, following_id) 唯一，且不允许自己关注自己
type Follow struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID  uint      `gorm:"uniqueIndex:idx_follow_pair;index;not null" json:"followerId"`
	FollowingID uint      `gorm:"uniqueIndex:idx_follow_pair;index;not null" json:"followingId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Follow) TableName() string {
	return "follows"
}
