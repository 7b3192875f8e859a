package service

import (
	"strings"

	"ridelog_backend/internal/model"
	"ridelog_backend/internal/repository"
	"ridelog_backend/internal/util"
)

type TagService struct {
	TagRepo  *repository.TagRepository
	TripRepo *repository.TripRepository
}

func NewTagService(tagRepo *repository.TagRepository, tripRepo *repository.TripRepository) *TagService {
	return &TagService{TagRepo: tagRepo, TripRepo: tripRepo}
}

// NormalizeTagName 标签规范化：去首尾空白、转小写、合并连续空白。
// 返回空串表示无效标签。
func NormalizeTagName(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, " ")
}

// Attach 给行程附加标签，大小写不敏感幂等
func (s *TagService) Attach(tripID, userID uint, name string) (*model.Tag, error) {
	trip, err := s.TripRepo.FindByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	normalized := NormalizeTagName(name)
	if normalized == "" || len(normalized) > 50 {
		return nil, util.ErrInvalidTagName
	}

	tag, err := s.TagRepo.FindOrCreate(strings.TrimSpace(name), normalized)
	if err != nil {
		return nil, err
	}

	attached, err := s.TagRepo.IsAttached(tripID, tag.ID)
	if err != nil {
		return nil, err
	}
	if attached {
		return tag, nil
	}

	count, err := s.TagRepo.CountByTrip(tripID)
	if err != nil {
		return nil, err
	}
	if count >= util.MaxTagsPerTrip {
		return nil, util.ErrTagLimitReached
	}

	if err := s.TagRepo.Attach(tripID, tag.ID); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) Detach(tripID, userID, tagID uint) error {
	trip, err := s.TripRepo.FindByID(tripID)
	if err != nil {
		return err
	}
	if trip.UserID != userID {
		return util.ErrPermissionDenied
	}
	return s.TagRepo.Detach(tripID, tagID)
}

func (s *TagService) ListByTrip(tripID uint) ([]model.Tag, error) {
	return s.TagRepo.ListByTrip(tripID)
}

func (s *TagService) ListPopular(limit int) ([]model.Tag, error) {
	return s.TagRepo.ListPopular(limit)
}

// Reconcile 后台定时兜底：重算 usage_count
func (s *TagService) Reconcile() error {
	return s.TagRepo.ReconcileUsageCounts()
}
