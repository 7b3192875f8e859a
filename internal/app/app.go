package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ridelog_backend/internal/config"
	"ridelog_backend/internal/controller"
	"ridelog_backend/internal/repository"
	"ridelog_backend/internal/service"
	"ridelog_backend/pkg/configwatcher"
	"ridelog_backend/pkg/database"
	"ridelog_backend/pkg/logger"
	"ridelog_backend/pkg/monitoring"
	"ridelog_backend/pkg/security"
	"ridelog_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	trip        *repository.TripRepository
	photo       *repository.PhotoRepository
	location    *repository.LocationRepository
	tag         *repository.TagRepository
	follow      *repository.FollowRepository
	stats       *repository.StatsRepository
	achievement *repository.AchievementRepository
	route       *repository.RouteRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	user        *service.UserService
	trip        *service.TripService
	photo       *service.PhotoService
	tag         *service.TagService
	follow      *service.FollowService
	achievement *service.AchievementService
	feed        *service.FeedService
	gpx         *service.GPXService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	trip        *controller.TripController
	photo       *controller.PhotoController
	tag         *controller.TagController
	follow      *controller.FollowController
	achievement *controller.AchievementController
	feed        *controller.FeedController
	route       *controller.RouteController
	admin       *controller.AdminController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		trip:        repository.NewTripRepository(db, rdb),
		photo:       repository.NewPhotoRepository(db),
		location:    repository.NewLocationRepository(db),
		tag:         repository.NewTagRepository(db),
		follow:      repository.NewFollowRepository(db, rdb),
		stats:       repository.NewStatsRepository(db),
		achievement: repository.NewAchievementRepository(db),
		route:       repository.NewRouteRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.stats, cfg)
	s.user = service.NewUserService(repos.user, repos.stats, s.storage)
	s.achievement = service.NewAchievementService(repos.achievement, repos.stats, repos.user)
	s.trip = service.NewTripService(repos.trip, repos.location, repos.route, repos.stats, s.achievement)
	s.photo = service.NewPhotoService(repos.photo, repos.trip, repos.stats, s.storage)
	s.tag = service.NewTagService(repos.tag, repos.trip)
	s.follow = service.NewFollowService(repos.follow, repos.user, repos.stats, s.achievement)
	s.feed = service.NewFeedService(repos.trip, repos.follow, repos.tag)
	s.gpx = service.NewGPXService(repos.trip, repos.route, repos.stats, s.achievement, &cfg.GPX)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user, s.trip),
		trip:        controller.NewTripController(s.trip),
		photo:       controller.NewPhotoController(s.photo),
		tag:         controller.NewTagController(s.tag),
		follow:      controller.NewFollowController(s.follow),
		achievement: controller.NewAchievementController(s.achievement),
		feed:        controller.NewFeedController(s.feed),
		route:       controller.NewRouteController(s.gpx, s.trip),
		admin:       controller.NewAdminController(s.user, s.tag, s.achievement),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// 标签计数兜底校准，防止并发更新后计数漂移
	go func() {
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			if err := s.tag.Reconcile(); err != nil {
				logger.Log.Error("tag usage reconcile error", zap.Error(err))
			}
		}
	}()

	// 配置热加载：GPX 处理参数可以不重启生效
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(raw interface{}) {
		newCfg, ok := raw.(*config.Config)
		if !ok {
			return
		}
		a.Config.GPX = newCfg.GPX
		a.Config.RateLimit = newCfg.RateLimit
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
		logger.Log.Info("Config reloaded")
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("ridelog", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
