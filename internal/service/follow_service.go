package service

import (
	"ridelog_backend/internal/model"
	"ridelog_backend/internal/repository"
	"ridelog_backend/internal/util"

	"gorm.io/gorm"
)

type FollowService struct {
	FollowRepo  *repository.FollowRepository
	UserRepo    *repository.UserRepository
	StatsRepo   *repository.StatsRepository
	Achievement *AchievementService
}

func NewFollowService(
	followRepo *repository.FollowRepository,
	userRepo *repository.UserRepository,
	statsRepo *repository.StatsRepository,
	achievement *AchievementService,
) *FollowService {
	return &FollowService{
		FollowRepo:  followRepo,
		UserRepo:    userRepo,
		StatsRepo:   statsRepo,
		Achievement: achievement,
	}
}

func (s *FollowService) Follow(followerID, followingID uint) error {
	if followerID == followingID {
		return util.ErrSelfFollow
	}

	if _, err := s.UserRepo.FindByID(followingID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}

	following, err := s.FollowRepo.IsFollowing(followerID, followingID)
	if err != nil {
		return err
	}
	if following {
		return util.ErrAlreadyFollowing
	}

	if err := s.FollowRepo.Create(&model.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}); err != nil {
		return err
	}

	if err := s.StatsRepo.Increment(followerID, map[string]float64{"following_count": 1}); err != nil {
		return err
	}
	if err := s.StatsRepo.Increment(followingID, map[string]float64{"follower_count": 1}); err != nil {
		return err
	}

	s.Achievement.CheckAndAward(followingID)
	return nil
}

func (s *FollowService) Unfollow(followerID, followingID uint) error {
	removed, err := s.FollowRepo.Delete(followerID, followingID)
	if err != nil {
		return err
	}
	if !removed {
		return util.ErrNotFollowing
	}

	if err := s.StatsRepo.Increment(followerID, map[string]float64{"following_count": -1}); err != nil {
		return err
	}
	return s.StatsRepo.Increment(followingID, map[string]float64{"follower_count": -1})
}

func (s *FollowService) IsFollowing(followerID, followingID uint) (bool, error) {
	return s.FollowRepo.IsFollowing(followerID, followingID)
}

func (s *FollowService) ListFollowers(userID uint, page, limit int) ([]model.User, int64, error) {
	return s.FollowRepo.ListFollowers(userID, limit, (page-1)*limit)
}

func (s *FollowService) ListFollowing(userID uint, page, limit int) ([]model.User, int64, error) {
	return s.FollowRepo.ListFollowing(userID, limit, (page-1)*limit)
}
