package service

import (
	"ridelog_backend/internal/model"
	"ridelog_backend/internal/repository"
	"ridelog_backend/pkg/logger"

	"go.uber.org/zap"
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	StatsRepo       *repository.StatsRepository
	UserRepo        *repository.UserRepository
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	statsRepo *repository.StatsRepository,
	userRepo *repository.UserRepository,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		StatsRepo:       statsRepo,
		UserRepo:        userRepo,
	}
}

func (s *AchievementService) ListCatalog() ([]model.Achievement, error) {
	return s.AchievementRepo.ListAll()
}

func (s *AchievementService) ListByUser(userID uint) ([]model.UserAchievement, error) {
	return s.AchievementRepo.ListByUser(userID)
}

type AchievementRequest struct {
	Code        string  `json:"code" binding:"required,max=50"`
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=255"`
	Icon        string  `json:"icon" binding:"max=255"`
	Kind        string  `json:"kind" binding:"required,oneof=published_trips total_distance_m total_elevation_m followers"`
	Threshold   float64 `json:"threshold" binding:"required,gt=0"`
}

// CreateAchievement 管理端新增成就定义
func (s *AchievementService) CreateAchievement(req AchievementRequest) (*model.Achievement, error) {
	a := &model.Achievement{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Kind:        model.AchievementKind(req.Kind),
		Threshold:   req.Threshold,
	}
	if err := s.AchievementRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// CheckAndAward 对照当前统计颁发达到阈值的成就。幂等，失败只记日志不中断主流程
func (s *AchievementService) CheckAndAward(userID uint) {
	stats, err := s.StatsRepo.GetByUserID(userID)
	if err != nil {
		logger.Log.Error("achievement check: load stats failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}

	catalog, err := s.AchievementRepo.ListAll()
	if err != nil {
		logger.Log.Error("achievement check: load catalog failed", zap.Error(err))
		return
	}

	for _, a := range catalog {
		if statValue(stats, a.Kind) < a.Threshold {
			continue
		}
		if err := s.AchievementRepo.Award(userID, a.ID); err != nil {
			logger.Log.Error("achievement award failed",
				zap.Uint("user_id", userID),
				zap.String("code", a.Code),
				zap.Error(err))
		}
	}
}

func statValue(stats *model.UserStats, kind model.AchievementKind) float64 {
	switch kind {
	case model.KindPublishedTrips:
		return float64(stats.PublishedCount)
	case model.KindTotalDistance:
		return stats.TotalDistanceM
	case model.KindTotalElevation:
		return stats.TotalElevationM
	case model.KindFollowers:
		return float64(stats.FollowerCount)
	default:
		return 0
	}
}

type LeaderboardEntry struct {
	UserID         uint    `json:"userId"`
	Name           string  `json:"name"`
	Avatar         string  `json:"avatar"`
	TotalDistanceM float64 `json:"totalDistanceM"`
	PublishedCount int64   `json:"publishedCount"`
}

// Leaderboard 按累计距离排行
func (s *AchievementService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	statsList, err := s.StatsRepo.Leaderboard(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(statsList))
	for _, st := range statsList {
		entry := LeaderboardEntry{
			UserID:         st.UserID,
			TotalDistanceM: st.TotalDistanceM,
			PublishedCount: st.PublishedCount,
		}
		if user, err := s.UserRepo.FindByID(st.UserID); err == nil {
			entry.Name = user.Name
			entry.Avatar = user.Avatar
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
