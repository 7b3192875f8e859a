package service

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"ridelog_backend/internal/config"
	"ridelog_backend/internal/model"
	"ridelog_backend/internal/repository"
	"ridelog_backend/internal/util"
	"ridelog_backend/pkg/gpx"

	"gorm.io/datatypes"
)

type GPXService struct {
	TripRepo    *repository.TripRepository
	RouteRepo   *repository.RouteRepository
	StatsRepo   *repository.StatsRepository
	Achievement *AchievementService
	Cfg         *config.GPXConfig
}

func NewGPXService(
	tripRepo *repository.TripRepository,
	routeRepo *repository.RouteRepository,
	statsRepo *repository.StatsRepository,
	achievement *AchievementService,
	cfg *config.GPXConfig,
) *GPXService {
	return &GPXService{
		TripRepo:    tripRepo,
		RouteRepo:   routeRepo,
		StatsRepo:   statsRepo,
		Achievement: achievement,
		Cfg:         cfg,
	}
}

// round1 距离/海拔统一保留 0.1 精度
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ProcessUpload 解析 GPX、计算统计并落库。重新上传覆盖旧路线，
// 同时把统计差值同步到用户累计数据。
func (s *GPXService) ProcessUpload(tripID, userID uint, r io.Reader) (*model.TripRoute, error) {
	trip, err := s.TripRepo.FindByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	maxBytes := int64(s.Cfg.MaxFileSizeMB) << 20
	limited := &io.LimitedReader{R: r, N: maxBytes + 1}

	track, err := gpx.Parse(limited)
	// 超限时解析多半先报截断错误，大小判定要优先
	if limited.N <= 0 {
		return nil, util.ErrGPXTooLarge
	}
	if err != nil {
		return nil, err
	}

	opts := gpx.Options{
		ElevationWindow: s.Cfg.ElevationWindow,
		StopSpeedKmh:    s.Cfg.StopSpeedKmh,
		StopDwell:       time.Duration(s.Cfg.StopDwellSeconds) * time.Second,
	}
	stats := gpx.ComputeStats(track.Points, opts)

	simplified := gpx.Simplify(track.Points, s.Cfg.SimplifyEpsilonM)
	polyline := make([][2]float64, 0, len(simplified))
	for _, p := range simplified {
		polyline = append(polyline, [2]float64{p.Lat, p.Lon})
	}
	polylineJSON, err := json.Marshal(polyline)
	if err != nil {
		return nil, err
	}

	// 旧路线的贡献先从累计里退掉
	oldRoute, routeErr := s.RouteRepo.FindByTrip(tripID)

	route := &model.TripRoute{
		TripID:         tripID,
		PointCount:     len(track.Points),
		DistanceM:      round1(stats.DistanceM),
		ElevationGainM: round1(stats.ElevationGainM),
		ElevationLossM: round1(stats.ElevationLossM),
		HasTiming:      stats.HasTiming,
		TotalSeconds:   int64(stats.TotalTime.Seconds()),
		MovingSeconds:  int64(stats.MovingTime.Seconds()),
		AvgSpeedKmh:    round1(stats.AvgSpeedKmh),
		MaxGradient:    round1(stats.MaxGradientPct),
		MinGradient:    round1(stats.MinGradientPct),
		Polyline:       datatypes.JSON(polylineJSON),
	}

	if err := s.RouteRepo.Upsert(route); err != nil {
		return nil, err
	}

	err = s.TripRepo.UpdateVersioned(trip, trip.Version, map[string]interface{}{
		"distance_m":     route.DistanceM,
		"elevation_gain": route.ElevationGainM,
		"moving_seconds": route.MovingSeconds,
	})
	if err != nil {
		return nil, err
	}

	deltas := map[string]float64{
		"total_distance_m":  route.DistanceM,
		"total_elevation_m": route.ElevationGainM,
		"total_moving_sec":  float64(route.MovingSeconds),
	}
	if routeErr == nil && oldRoute != nil {
		deltas["total_distance_m"] -= oldRoute.DistanceM
		deltas["total_elevation_m"] -= oldRoute.ElevationGainM
		deltas["total_moving_sec"] -= float64(oldRoute.MovingSeconds)
	}
	if err := s.StatsRepo.Increment(userID, deltas); err != nil {
		return nil, err
	}

	s.Achievement.CheckAndAward(userID)
	return route, nil
}

func (s *GPXService) GetRoute(tripID uint) (*model.TripRoute, error) {
	return s.RouteRepo.FindByTrip(tripID)
}

func (s *GPXService) DeleteRoute(tripID, userID uint) error {
	trip, err := s.TripRepo.FindByID(tripID)
	if err != nil {
		return err
	}
	if trip.UserID != userID {
		return util.ErrPermissionDenied
	}

	route, err := s.RouteRepo.FindByTrip(tripID)
	if err != nil {
		return err
	}

	if err := s.RouteRepo.DeleteByTrip(tripID); err != nil {
		return err
	}

	err = s.TripRepo.UpdateVersioned(trip, trip.Version, map[string]interface{}{
		"distance_m":     0,
		"elevation_gain": 0,
		"moving_seconds": 0,
	})
	if err != nil {
		return err
	}

	return s.StatsRepo.Increment(userID, map[string]float64{
		"total_distance_m":  -route.DistanceM,
		"total_elevation_m": -route.ElevationGainM,
		"total_moving_sec":  -float64(route.MovingSeconds),
	})
}
