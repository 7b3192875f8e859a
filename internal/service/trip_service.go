package service

import (
	"time"

	"ridelog_backend/internal/model"
	"ridelog_backend/internal/repository"
	"ridelog_backend/internal/util"
)

type TripService struct {
	TripRepo     *repository.TripRepository
	LocationRepo *repository.LocationRepository
	RouteRepo    *repository.RouteRepository
	StatsRepo    *repository.StatsRepository
	Achievement  *AchievementService
}

func NewTripService(
	tripRepo *repository.TripRepository,
	locationRepo *repository.LocationRepository,
	routeRepo *repository.RouteRepository,
	statsRepo *repository.StatsRepository,
	achievement *AchievementService,
) *TripService {
	return &TripService{
		TripRepo:     tripRepo,
		LocationRepo: locationRepo,
		RouteRepo:    routeRepo,
		StatsRepo:    statsRepo,
		Achievement:  achievement,
	}
}

type TripRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type TripUpdateRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	// 客户端读取到的版本号，用于乐观锁校验
	Version int `json:"version" binding:"required,min=1"`
}

func (s *TripService) Create(userID uint, req TripRequest) (*model.Trip, error) {
	trip := &model.Trip{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TripDraft,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Version:     1,
	}

	if err := s.TripRepo.Create(trip); err != nil {
		return nil, err
	}

	if err := s.StatsRepo.Increment(userID, map[string]float64{"trip_count": 1}); err != nil {
		return nil, err
	}
	return trip, nil
}

// GetOwned 取行程并校验归属
func (s *TripService) GetOwned(tripID, userID uint) (*model.Trip, error) {
	trip, err := s.TripRepo.FindByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return trip, nil
}

// GetVisible 详情：已发布的对所有人可见，草稿只有作者可见
func (s *TripService) GetVisible(tripID uint, viewerID uint) (*model.Trip, error) {
	trip, err := s.TripRepo.FindByIDFull(tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != model.TripPublished && trip.UserID != viewerID {
		return nil, util.ErrTripNotFound
	}
	return trip, nil
}

func (s *TripService) Update(tripID, userID uint, req TripUpdateRequest) (*model.Trip, error) {
	trip, err := s.GetOwned(tripID, userID)
	if err != nil {
		return nil, err
	}

	err = s.TripRepo.UpdateVersioned(trip, req.Version, map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"start_date":  req.StartDate,
		"end_date":    req.EndDate,
	})
	if err != nil {
		return nil, err
	}

	return s.TripRepo.FindByID(tripID)
}

// Publish 草稿发布。要求标题非空，且有路线或至少一个地点
func (s *TripService) Publish(tripID, userID uint) (*model.Trip, error) {
	trip, err := s.GetOwned(tripID, userID)
	if err != nil {
		return nil, err
	}
	if trip.Status == model.TripPublished {
		return trip, nil
	}

	if err := s.checkPublishable(trip); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.TripRepo.UpdateVersioned(trip, trip.Version, map[string]interface{}{
		"status":       model.TripPublished,
		"published_at": &now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.StatsRepo.Increment(userID, map[string]float64{"published_count": 1}); err != nil {
		return nil, err
	}
	s.TripRepo.InvalidateFeedCache()
	s.Achievement.CheckAndAward(userID)

	return s.TripRepo.FindByID(tripID)
}

func (s *TripService) Unpublish(tripID, userID uint) (*model.Trip, error) {
	trip, err := s.GetOwned(tripID, userID)
	if err != nil {
		return nil, err
	}
	if trip.Status == model.TripDraft {
		return trip, nil
	}

	err = s.TripRepo.UpdateVersioned(trip, trip.Version, map[string]interface{}{
		"status":       model.TripDraft,
		"published_at": nil,
	})
	if err != nil {
		return nil, err
	}

	if err := s.StatsRepo.Increment(userID, map[string]float64{"published_count": -1}); err != nil {
		return nil, err
	}
	s.TripRepo.InvalidateFeedCache()

	return s.TripRepo.FindByID(tripID)
}

func (s *TripService) checkPublishable(trip *model.Trip) error {
	if trip.Title == "" {
		return util.ErrTripNotPublishable
	}

	if _, err := s.RouteRepo.FindByTrip(trip.ID); err == nil {
		return nil
	}

	count, err := s.LocationRepo.CountByTrip(trip.ID)
	if err != nil {
		return err
	}
	if count == 0 {
		return util.ErrTripNotPublishable
	}
	return nil
}

func (s *TripService) Delete(tripID, userID uint) error {
	trip, err := s.GetOwned(tripID, userID)
	if err != nil {
		return err
	}

	if err := s.TripRepo.Delete(tripID); err != nil {
		return err
	}

	deltas := map[string]float64{
		"trip_count":        -1,
		"total_distance_m":  -trip.DistanceM,
		"total_elevation_m": -trip.ElevationGain,
		"total_moving_sec":  -float64(trip.MovingSeconds),
	}
	if trip.Status == model.TripPublished {
		deltas["published_count"] = -1
		s.TripRepo.InvalidateFeedCache()
	}
	return s.StatsRepo.Increment(userID, deltas)
}

func (s *TripService) ListMine(userID uint, status model.TripStatus, page, limit int) ([]model.Trip, int64, error) {
	return s.TripRepo.ListByUser(userID, status, limit, (page-1)*limit)
}

// ListPublishedByUser 查看他人主页时只返回已发布的行程
func (s *TripService) ListPublishedByUser(userID uint, page, limit int) ([]model.Trip, int64, error) {
	return s.TripRepo.ListByUser(userID, model.TripPublished, limit, (page-1)*limit)
}

type LocationRequest struct {
	Name      string   `json:"name" binding:"required,max=200"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// ReplaceLocations 整组替换行程地点（表单一次提交的语义）
func (s *TripService) ReplaceLocations(tripID, userID uint, reqs []LocationRequest) ([]model.TripLocation, error) {
	if _, err := s.GetOwned(tripID, userID); err != nil {
		return nil, err
	}

	locations := make([]model.TripLocation, 0, len(reqs))
	for _, req := range reqs {
		locations = append(locations, model.TripLocation{
			Name:      req.Name,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		})
	}

	if err := s.LocationRepo.ReplaceForTrip(tripID, locations); err != nil {
		return nil, err
	}
	return s.LocationRepo.ListByTrip(tripID)
}
