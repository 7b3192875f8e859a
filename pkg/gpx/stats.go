package gpx

import (
	"math"
	"time"
)

const earthRadiusM = 6371000.0

// Haversine 两个经纬度坐标间的大圆距离，米
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// Distance 轨迹累计距离，米
func Distance(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}
	return total
}

func (o *Options) applyDefaults() {
	def := DefaultOptions()
	if o.ElevationWindow <= 0 {
		o.ElevationWindow = def.ElevationWindow
	}
	if o.StopSpeedKmh <= 0 {
		o.StopSpeedKmh = def.StopSpeedKmh
	}
	if o.StopDwell <= 0 {
		o.StopDwell = def.StopDwell
	}
}

// ComputeStats 计算轨迹统计。结果对相同输入是确定的。
// 全部点都带时间戳时才计算移动时间，否则 HasTiming=false（部分结果策略）。
func ComputeStats(points []Point, opts Options) Stats {
	opts.applyDefaults()

	stats := Stats{PointCount: len(points)}
	if len(points) < 2 {
		return stats
	}

	segDist := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		segDist[i-1] = Haversine(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
		stats.DistanceM += segDist[i-1]
	}

	computeElevation(points, segDist, opts.ElevationWindow, &stats)
	computeTiming(points, segDist, opts, &stats)

	return stats
}

// computeElevation 对带海拔的点做滑动平均平滑后累计正/负增量，并求坡度极值
func computeElevation(points []Point, segDist []float64, window int, stats *Stats) {
	var idx []int
	var eles []float64
	for i, p := range points {
		if p.Elevation != nil {
			idx = append(idx, i)
			eles = append(eles, *p.Elevation)
		}
	}
	if len(eles) < 2 {
		return
	}

	smoothed := movingAverage(eles, window)

	// 相邻两个海拔采样点之间的水平距离作为坡度分母
	for k := 1; k < len(smoothed); k++ {
		rise := smoothed[k] - smoothed[k-1]
		if rise > 0 {
			stats.ElevationGainM += rise
		} else {
			stats.ElevationLossM += -rise
		}

		var run float64
		for s := idx[k-1]; s < idx[k]; s++ {
			run += segDist[s]
		}
		if run < 1e-9 {
			continue
		}
		grad := rise / run * 100
		if grad > stats.MaxGradientPct {
			stats.MaxGradientPct = grad
		}
		if grad < stats.MinGradientPct {
			stats.MinGradientPct = grad
		}
	}
}

// movingAverage 居中滑动平均，窗口在序列边界处收缩
func movingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) < 3 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	half := window / 2
	out := make([]float64, len(values))
	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(values)-1 {
			hi = len(values) - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// computeTiming 总时间、停留检测与移动时间。
// 连续低速路段累计超过 StopDwell 才计为停留，排除掉红灯等短暂等待误判。
func computeTiming(points []Point, segDist []float64, opts Options, stats *Stats) {
	for _, p := range points {
		if p.Time == nil {
			return
		}
	}

	stats.HasTiming = true
	stats.TotalTime = points[len(points)-1].Time.Sub(*points[0].Time)

	var stopped time.Duration
	var slowRun time.Duration
	for i := 0; i < len(segDist); i++ {
		dt := points[i+1].Time.Sub(*points[i].Time)
		if dt <= 0 {
			continue
		}

		speedKmh := (segDist[i] / 1000) / dt.Hours()
		if speedKmh < opts.StopSpeedKmh {
			slowRun += dt
			continue
		}

		if slowRun >= opts.StopDwell {
			stopped += slowRun
		}
		slowRun = 0
	}
	if slowRun >= opts.StopDwell {
		stopped += slowRun
	}

	stats.MovingTime = stats.TotalTime - stopped
	if stats.MovingTime > 0 {
		stats.AvgSpeedKmh = (stats.DistanceM / 1000) / stats.MovingTime.Hours()
	}
}
