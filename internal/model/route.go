package model

import "gorm.io/datatypes"

// TripRoute 行程的 GPX 解析结果（1:1），简化后的折线以 JSON 存储供前端地图渲染
type TripRoute struct {
	BaseModel
	TripID     uint    `gorm:"uniqueIndex;not null" json:"tripId"`
	PointCount int     `json:"pointCount"`
	DistanceM  float64 `json:"distanceM"`
	// 平滑后的累计爬升/下降，米
	ElevationGainM float64 `json:"elevationGainM"`
	ElevationLossM float64 `json:"elevationLossM"`
	// 无时间戳的轨迹两者均为 0，HasTiming=false
	HasTiming     bool    `json:"hasTiming"`
	TotalSeconds  int64   `json:"totalSeconds"`
	MovingSeconds int64   `json:"movingSeconds"`
	AvgSpeedKmh   float64 `json:"avgSpeedKmh"`
	MaxGradient   float64 `json:"maxGradientPct"`
	MinGradient   float64 `json:"minGradientPct"`
	// Douglas-Peucker 简化后的 [[lat,lon],...]
	Polyline datatypes.JSON `json:"polyline"`
}

func (TripRoute) TableName() string {
	return "trip_routes"
}
