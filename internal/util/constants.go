package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeImage = "image/"
	MimeXML   = "application/xml"
	MimeGPX   = "application/gpx+xml"
)

const (
	MaxPhotosPerTrip = 20
	MaxTagsPerTrip   = 10
	MaxPhotoSizeMB   = 15
)

var (
	AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)
