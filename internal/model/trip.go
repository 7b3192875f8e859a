package model

import "time"

type TripStatus string

const (
	TripDraft     TripStatus = "draft"
	TripPublished TripStatus = "published"
)

// swagger:model Trip
type Trip struct {
	BaseModel
	UserID      uint       `gorm:"index;not null" json:"userId"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TripStatus `gorm:"size:20;default:'draft';index" json:"status"`
	// 乐观锁版本号，更新时校验
	Version     int        `gorm:"default:1" json:"version"`
	CoverURL    string     `gorm:"size:255" json:"coverUrl"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	PublishedAt *time.Time `gorm:"index" json:"publishedAt"`

	// 冗余的行程摘要，来自 GPX 解析或手工填写
	DistanceM     float64 `gorm:"default:0" json:"distanceM"`
	ElevationGain float64 `gorm:"default:0" json:"elevationGainM"`
	MovingSeconds int64   `gorm:"default:0" json:"movingSeconds"`

	Photos    []TripPhoto    `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	Locations []TripLocation `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"locations,omitempty"`
	Tags      []Tag          `gorm:"many2many:trip_tags;" json:"tags,omitempty"`
	Route     *TripRoute     `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"route,omitempty"`
}

func (Trip) TableName() string {
	return "trips"
}

// swagger:model TripPhoto
type TripPhoto struct {
	BaseModel
	TripID       uint   `gorm:"index;not null;uniqueIndex:idx_trip_photo_position" json:"tripId"`
	Position     int    `gorm:"not null;uniqueIndex:idx_trip_photo_position" json:"position"`
	ObjectKey    string `gorm:"size:255;not null" json:"-"`
	URL          string `gorm:"size:255" json:"url"`
	ThumbnailURL string `gorm:"size:255" json:"thumbnailUrl"`
	Caption      string `gorm:"size:255" json:"caption"`
	ContentType  string `gorm:"size:100" json:"contentType"`
	SizeBytes    int64  `json:"sizeBytes"`
}

func (TripPhoto) TableName() string {
	return "trip_photos"
}

// swagger:model TripLocation
type TripLocation struct {
	BaseModel
	TripID   uint     `gorm:"index;not null" json:"tripId"`
	Position int      `gorm:"not null" json:"position"`
	Name     string   `gorm:"size:200;not null" json:"name"`
	// GPS 坐标可选
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (TripLocation) TableName() string {
	return "trip_locations"
}
