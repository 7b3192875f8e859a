// Package gpx 解析 GPX 轨迹并计算骑行统计：
// 总距离、爬升/下降、移动时间（停留检测）、坡度，以及用于地图渲染的
// Douglas-Peucker 简化折线。
package gpx

import (
	"errors"
	"time"
)

var (
	ErrNoTrack          = errors.New("gpx: no <trk> element")
	ErrNoPoints         = errors.New("gpx: track has no points")
	ErrCoordinateRange  = errors.New("gpx: coordinate out of range")
	ErrNonMonotonicTime = errors.New("gpx: timestamps are not monotonically non-decreasing")
	ErrMalformedXML     = errors.New("gpx: malformed xml")
)

// Point 单个轨迹点。海拔与时间戳可选。
type Point struct {
	Lat       float64
	Lon       float64
	Elevation *float64
	Time      *time.Time
}

// Track 有序的轨迹点序列
type Track struct {
	Name   string
	Points []Point
}

// Options 统计计算参数
type Options struct {
	// 海拔平滑滑动窗口（奇数），<=1 表示不平滑
	ElevationWindow int
	// 低于该速度的路段视为候选停留
	StopSpeedKmh float64
	// 连续慢速路段累计超过该时长才计为停留
	StopDwell time.Duration
}

func DefaultOptions() Options {
	return Options{
		ElevationWindow: 5,
		StopSpeedKmh:    1,
		StopDwell:       30 * time.Second,
	}
}

// Stats 轨迹统计结果。HasTiming=false 时与时间相关的字段均为零值。
type Stats struct {
	PointCount     int
	DistanceM      float64
	ElevationGainM float64
	ElevationLossM float64
	HasTiming      bool
	TotalTime      time.Duration
	MovingTime     time.Duration
	AvgSpeedKmh    float64
	MaxGradientPct float64
	MinGradientPct float64
}
