package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;default:'user'" json:"role"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `json:"lastLogin"`
	LastSeen  time.Time `json:"lastSeen"`

	Profile *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserProfile 用户资料（1:1），与账号表分离，便于公开展示
type UserProfile struct {
	BaseModel
	UserID      uint           `gorm:"uniqueIndex;not null" json:"userId"`
	DisplayName string         `gorm:"size:100" json:"displayName"`
	Bio         string         `gorm:"size:500" json:"bio"`
	Location    string         `gorm:"size:100" json:"location"`
	Website     string         `gorm:"size:255" json:"website"`
	// 单位偏好：metric / imperial
	Units string         `gorm:"size:10;default:'metric'" json:"units"`
	Links datatypes.JSON `json:"links,omitempty"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
