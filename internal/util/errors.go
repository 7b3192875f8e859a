package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrTripNotFound        = errors.New("trip not found")
	ErrTripNotPublishable  = errors.New("trip needs a title and a route or at least one location")
	ErrVersionConflict     = errors.New("trip was modified concurrently")
	ErrPhotoNotFound       = errors.New("photo not found")
	ErrInvalidFileType     = errors.New("invalid file type")
	ErrPhotoLimitReached   = errors.New("photo limit reached (max 20)")
	ErrTagLimitReached     = errors.New("tag limit reached (max 10)")
	ErrInvalidTagName      = errors.New("invalid tag name")
	ErrSelfFollow          = errors.New("cannot follow yourself")
	ErrAlreadyFollowing    = errors.New("already following")
	ErrNotFollowing        = errors.New("not following")
	ErrRouteNotFound       = errors.New("route not found")
	ErrGPXTooLarge         = errors.New("gpx file too large")
	ErrInvalidGPX          = errors.New("invalid gpx file")
)
