package service

import (
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"ridelog_backend/internal/model"
	"ridelog_backend/internal/repository"
	"ridelog_backend/internal/util"
	"ridelog_backend/pkg/logger"

	"go.uber.org/zap"
)

const thumbnailWidth = 480

type PhotoService struct {
	PhotoRepo *repository.PhotoRepository
	TripRepo  *repository.TripRepository
	StatsRepo *repository.StatsRepository
	Storage   *StorageService
}

func NewPhotoService(
	photoRepo *repository.PhotoRepository,
	tripRepo *repository.TripRepository,
	statsRepo *repository.StatsRepository,
	storage *StorageService,
) *PhotoService {
	return &PhotoService{
		PhotoRepo: photoRepo,
		TripRepo:  tripRepo,
		StatsRepo: statsRepo,
		Storage:   storage,
	}
}

func (s *PhotoService) ownerTrip(tripID, userID uint) (*model.Trip, error) {
	trip, err := s.TripRepo.FindByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return trip, nil
}

// Upload 上传行程照片：MIME 嗅探、数量上限、顺序追加、缩略图
func (s *PhotoService) Upload(ctx context.Context, tripID, userID uint, file *multipart.FileHeader, caption string) (*model.TripPhoto, error) {
	if _, err := s.ownerTrip(tripID, userID); err != nil {
		return nil, err
	}

	count, err := s.PhotoRepo.CountByTrip(tripID)
	if err != nil {
		return nil, err
	}
	if count >= util.MaxPhotosPerTrip {
		return nil, util.ErrPhotoLimitReached
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := TripObjectKey(tripID, model.GenerateUUID()+ext)

	// 先落临时文件，供上传与缩略图两次读取
	tmp, err := os.CreateTemp("", "ridelog-photo-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.ReadFrom(src); err != nil {
		return nil, err
	}

	url, err := s.Storage.UploadFile(ctx, key, tmp.Name(), mimeType)
	if err != nil {
		return nil, err
	}

	thumbURL := s.uploadThumbnail(ctx, tmp.Name(), key, mimeType)

	position, err := s.PhotoRepo.NextPosition(tripID)
	if err != nil {
		return nil, err
	}

	photo := &model.TripPhoto{
		TripID:       tripID,
		Position:     position,
		ObjectKey:    key,
		URL:          url,
		ThumbnailURL: thumbURL,
		Caption:      caption,
		ContentType:  mimeType,
		SizeBytes:    file.Size,
	}
	if err := s.PhotoRepo.Create(photo); err != nil {
		return nil, err
	}

	if err := s.StatsRepo.Increment(userID, map[string]float64{"photo_count": 1}); err != nil {
		return nil, err
	}
	return photo, nil
}

// uploadThumbnail 缩略图失败不阻断照片上传，回退为原图地址
func (s *PhotoService) uploadThumbnail(ctx context.Context, localPath, key, mimeType string) string {
	thumbPath := localPath + ".thumb.jpg"
	defer os.Remove(thumbPath)

	if err := util.GenerateThumbnail(localPath, thumbPath, thumbnailWidth); err != nil {
		logger.Log.Warn("thumbnail generation failed", zap.String("key", key), zap.Error(err))
		return s.Storage.GetURL(key)
	}

	thumbKey := thumbKeyFor(key)
	url, err := s.Storage.UploadFile(ctx, thumbKey, thumbPath, "image/jpeg")
	if err != nil {
		logger.Log.Warn("thumbnail upload failed", zap.String("key", thumbKey), zap.Error(err))
		return s.Storage.GetURL(key)
	}
	return url
}

func thumbKeyFor(key string) string {
	ext := filepath.Ext(key)
	return strings.TrimSuffix(key, ext) + "_thumb.jpg"
}

func (s *PhotoService) List(tripID uint) ([]model.TripPhoto, error) {
	return s.PhotoRepo.ListByTrip(tripID)
}

func (s *PhotoService) UpdateCaption(tripID, userID, photoID uint, caption string) error {
	if _, err := s.ownerTrip(tripID, userID); err != nil {
		return err
	}

	photo, err := s.PhotoRepo.FindByID(photoID)
	if err != nil {
		return err
	}
	if photo.TripID != tripID {
		return util.ErrPhotoNotFound
	}
	return s.PhotoRepo.UpdateCaption(photoID, caption)
}

func (s *PhotoService) Reorder(tripID, userID uint, orderedIDs []uint) ([]model.TripPhoto, error) {
	if _, err := s.ownerTrip(tripID, userID); err != nil {
		return nil, err
	}

	count, err := s.PhotoRepo.CountByTrip(tripID)
	if err != nil {
		return nil, err
	}
	if int64(len(orderedIDs)) != count {
		return nil, util.ErrPhotoNotFound
	}

	if err := s.PhotoRepo.Reorder(tripID, orderedIDs); err != nil {
		return nil, err
	}
	return s.PhotoRepo.ListByTrip(tripID)
}

func (s *PhotoService) Delete(ctx context.Context, tripID, userID, photoID uint) error {
	if _, err := s.ownerTrip(tripID, userID); err != nil {
		return err
	}

	photo, err := s.PhotoRepo.FindByID(photoID)
	if err != nil {
		return err
	}
	if photo.TripID != tripID {
		return util.ErrPhotoNotFound
	}

	if err := s.PhotoRepo.Delete(photoID); err != nil {
		return err
	}

	// 对象删除失败只记日志，库记录已删
	if err := s.Storage.Delete(ctx, photo.ObjectKey); err != nil {
		logger.Log.Warn("photo object delete failed", zap.String("key", photo.ObjectKey), zap.Error(err))
	}
	s.Storage.Delete(ctx, thumbKeyFor(photo.ObjectKey))

	return s.StatsRepo.Increment(userID, map[string]float64{"photo_count": -1})
}
