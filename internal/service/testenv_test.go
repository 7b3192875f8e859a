package service

import (
	"fmt"
	"testing"

	"ridelog_backend/internal/config"
	"ridelog_backend/internal/model"
	"ridelog_backend/internal/repository"
	"ridelog_backend/pkg/database"
	"ridelog_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv 共享内存库上的完整服务装配
type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	stats       *repository.StatsRepository
	routes      *repository.RouteRepository
	photoRepo   *repository.PhotoRepository
	achievement *AchievementService
	trips       *TripService
	photos      *PhotoService
	tags        *TagService
	follows     *FollowService
	gpx         *GPXService
	feed        *FeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db, nil)
	locationRepo := repository.NewLocationRepository(db)
	tagRepo := repository.NewTagRepository(db)
	followRepo := repository.NewFollowRepository(db, nil)
	statsRepo := repository.NewStatsRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	storageCfg := &config.Config{}
	storageCfg.Storage.Type = "local"
	storageCfg.Storage.LocalPath = t.TempDir()
	storage := NewStorageService(storageCfg)

	achievement := NewAchievementService(achievementRepo, statsRepo, userRepo)
	gpxCfg := config.GPXConfig{
		MaxFileSizeMB:    1,
		SimplifyEpsilonM: 10,
		StopSpeedKmh:     1,
		StopDwellSeconds: 30,
		ElevationWindow:  5,
	}

	return &testEnv{
		db:          db,
		users:       userRepo,
		stats:       statsRepo,
		routes:      routeRepo,
		photoRepo:   photoRepo,
		achievement: achievement,
		trips:       NewTripService(tripRepo, locationRepo, routeRepo, statsRepo, achievement),
		photos:      NewPhotoService(photoRepo, tripRepo, statsRepo, storage),
		tags:        NewTagService(tagRepo, tripRepo),
		follows:     NewFollowService(followRepo, userRepo, statsRepo, achievement),
		gpx:         NewGPXService(tripRepo, routeRepo, statsRepo, achievement, &gpxCfg),
		feed:        NewFeedService(tripRepo, followRepo, tagRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, name, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    email,
		Password: "hashed-password",
		Role:     model.RoleUser,
	}
	if err := e.users.Create(user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	if _, err := e.stats.GetOrCreate(user.ID); err != nil {
		t.Fatalf("create stats for %s: %v", email, err)
	}
	return user
}

func (e *testEnv) createDraftWithLocation(t *testing.T, userID uint, title string) *model.Trip {
	t.Helper()
	trip, err := e.trips.Create(userID, TripRequest{Title: title})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	_, err = e.trips.ReplaceLocations(trip.ID, userID, []LocationRequest{{Name: "出发点"}})
	if err != nil {
		t.Fatalf("set locations: %v", err)
	}
	return trip
}

func (e *testEnv) userStats(t *testing.T, userID uint) *model.UserStats {
	t.Helper()
	stats, err := e.stats.GetByUserID(userID)
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	return stats
}
