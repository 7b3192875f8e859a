package model

// Tag 标签以规范化名称唯一（小写、去首尾空白、合并连续空白）
type Tag struct {
	BaseModel
	Name           string `gorm:"size:50;not null" json:"name"`
	NormalizedName string `gorm:"size:50;uniqueIndex;not null" json:"-"`
	UsageCount     int64  `gorm:"default:0;index" json:"usageCount"`
}

func (Tag) TableName() string {
	return "tags"
}

// TripTag 行程与标签的关联表
type TripTag struct {
	TripID uint `gorm:"primaryKey" json:"tripId"`
	TagID  uint `gorm:"primaryKey" json:"tagId"`
}

func (TripTag) TableName() string {
	return "trip_tags"
}
