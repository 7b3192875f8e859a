package service

import (
	"ridelog_backend/internal/model"
	"ridelog_backend/internal/repository"
)

type FeedService struct {
	TripRepo   *repository.TripRepository
	FollowRepo *repository.FollowRepository
	TagRepo    *repository.TagRepository
}

func NewFeedService(
	tripRepo *repository.TripRepository,
	followRepo *repository.FollowRepository,
	tagRepo *repository.TagRepository,
) *FeedService {
	return &FeedService{
		TripRepo:   tripRepo,
		FollowRepo: followRepo,
		TagRepo:    tagRepo,
	}
}

// Public 公共信息流：已发布行程按发布时间倒序。
// 无标签过滤的首页走 Redis 缓存。
func (s *FeedService) Public(tagName string, page, limit int) ([]model.Trip, int64, error) {
	var tagID uint
	if tagName != "" {
		tag, err := s.TagRepo.FindByNormalizedName(NormalizeTagName(tagName))
		if err != nil {
			return nil, 0, err
		}
		if tag == nil {
			return []model.Trip{}, 0, nil
		}
		tagID = tag.ID
	}

	cacheable := tagID == 0 && page == 1 && limit == 20
	if cacheable {
		if trips, total, ok := s.TripRepo.GetCachedFeedPage(); ok {
			return trips, total, nil
		}
	}

	trips, total, err := s.TripRepo.ListPublished(tagID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		s.TripRepo.SetCachedFeedPage(trips, total)
	}
	return trips, total, nil
}

// Following 关注流：当前用户关注作者的已发布行程
func (s *FeedService) Following(userID uint, page, limit int) ([]model.Trip, int64, error) {
	authorIDs, err := s.FollowRepo.GetFollowingIDsCached(userID)
	if err != nil {
		return nil, 0, err
	}
	return s.TripRepo.ListByAuthors(authorIDs, limit, (page-1)*limit)
}
