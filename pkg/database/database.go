package database

import (
	"fmt"
	"log"

	"ridelog_backend/internal/config"
	"ridelog_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 按配置选择驱动：sqlite 用于开发/测试，postgres 用于生产，mysql 兼容保留
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

func openDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite", "":
		path := cfg.Path
		if path == "" {
			path = "ridelog.db"
		}
		return sqlite.Open(path), nil
	case "postgres":
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, sslmode)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.Charset, cfg.ParseTime)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Migrate 执行表结构迁移并写入成就目录种子数据
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.UserProfile{},
		&model.Trip{},
		&model.TripPhoto{},
		&model.TripLocation{},
		&model.Tag{},
		&model.TripTag{},
		&model.Follow{},
		&model.UserStats{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.TripRoute{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")

	seedAchievements(db)
	return nil
}

// 默认成就目录
func seedAchievements(db *gorm.DB) {
	var count int64
	db.Model(&model.Achievement{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Achievement{
		{Code: "first_ride", Name: "第一次出发", Description: "发布第一篇骑行日记", Icon: "🚴", Kind: model.KindPublishedTrips, Threshold: 1},
		{Code: "ten_rides", Name: "常旅客", Description: "发布 10 篇骑行日记", Icon: "🗺️", Kind: model.KindPublishedTrips, Threshold: 10},
		{Code: "century_total", Name: "百公里俱乐部", Description: "累计骑行 100 公里", Icon: "💯", Kind: model.KindTotalDistance, Threshold: 100000},
		{Code: "thousand_km", Name: "千里走单骑", Description: "累计骑行 1000 公里", Icon: "🏆", Kind: model.KindTotalDistance, Threshold: 1000000},
		{Code: "climber", Name: "爬坡手", Description: "累计爬升 1000 米", Icon: "⛰️", Kind: model.KindTotalElevation, Threshold: 1000},
		{Code: "everesting", Name: "珠峰海拔", Description: "累计爬升 8848 米", Icon: "🏔️", Kind: model.KindTotalElevation, Threshold: 8848},
		{Code: "popular", Name: "小有名气", Description: "获得 10 位关注者", Icon: "⭐", Kind: model.KindFollowers, Threshold: 10},
	}
	for _, a := range defaults {
		db.Create(&a)
	}
}
