package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"path/filepath"
	"strings"

	"ridelog_backend/internal/model"
	"ridelog_backend/internal/repository"
	"ridelog_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo  *repository.UserRepository
	StatsRepo *repository.StatsRepository
	Storage   *StorageService
}

func NewUserService(userRepo *repository.UserRepository, statsRepo *repository.StatsRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo:  userRepo,
		StatsRepo: statsRepo,
		Storage:   storage,
	}
}

type ProfileRequest struct {
	DisplayName string            `json:"displayName" binding:"max=100"`
	Bio         string            `json:"bio" binding:"max=500"`
	Location    string            `json:"location" binding:"max=100"`
	Website     string            `json:"website" binding:"omitempty,url,max=255"`
	Units       string            `json:"units" binding:"omitempty,oneof=metric imperial"`
	Links       map[string]string `json:"links"`
}

// PublicProfile 公开主页：资料 + 统计
type PublicProfile struct {
	UserID      uint             `json:"userId"`
	Name        string           `json:"name"`
	Avatar      string           `json:"avatar"`
	DisplayName string           `json:"displayName"`
	Bio         string           `json:"bio"`
	Location    string           `json:"location"`
	Website     string           `json:"website"`
	Stats       *model.UserStats `json:"stats"`
}

func (s *UserService) GetPublicProfile(userID uint) (*PublicProfile, error) {
	user, err := s.UserRepo.FindByIDWithProfile(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	stats, err := s.StatsRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	profile := &PublicProfile{
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Stats:  stats,
	}
	if user.Profile != nil {
		profile.DisplayName = user.Profile.DisplayName
		profile.Bio = user.Profile.Bio
		profile.Location = user.Profile.Location
		profile.Website = user.Profile.Website
	}
	return profile, nil
}

func (s *UserService) UpdateProfile(userID uint, req ProfileRequest) (*model.UserProfile, error) {
	profile, err := s.UserRepo.GetProfile(userID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		profile = &model.UserProfile{UserID: userID}
	}

	profile.DisplayName = req.DisplayName
	profile.Bio = req.Bio
	profile.Location = req.Location
	profile.Website = req.Website
	if req.Units != "" {
		profile.Units = req.Units
	}
	if req.Links != nil {
		raw, err := json.Marshal(req.Links)
		if err != nil {
			return nil, err
		}
		profile.Links = datatypes.JSON(raw)
	}

	if err := s.UserRepo.SaveProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadAvatar 上传头像并更新用户记录
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := AvatarObjectKey(userID, ext)

	url, err := s.Storage.Upload(ctx, key, src, file.Size, mimeType)
	if err != nil {
		return "", err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", err
	}
	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}

func (s *UserService) Search(query string) ([]model.User, error) {
	return s.UserRepo.Search(query, 20)
}

func (s *UserService) SetDisabled(userID uint, disabled bool) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}
	return s.UserRepo.SetDisabled(userID, disabled)
}
