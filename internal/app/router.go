package app

import (
	"ridelog_backend/docs"
	"ridelog_backend/internal/config"
	"ridelog_backend/internal/middleware"
	"ridelog_backend/internal/model"
	"ridelog_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, repos, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerTripRoutes(authGroup, c)
		a.registerSocialRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 动态流和游记详情允许游客访问，登录用户可看自己的草稿
		public.GET("/feed", c.feed.Public)
		public.GET("/trips/:id", middleware.TryAuthMiddleware(cfg), c.trip.Get)
		public.GET("/trips/:id/photos", c.photo.List)
		public.GET("/trips/:id/tags", c.tag.ListByTrip)
		public.GET("/trips/:id/route", middleware.TryAuthMiddleware(cfg), c.route.GetRoute)

		public.GET("/tags/popular", c.tag.ListPopular)
		public.GET("/leaderboard", c.achievement.Leaderboard)
		public.GET("/achievements", c.achievement.ListCatalog)

		public.GET("/users/search", c.user.Search)
		public.GET("/users/:id", c.user.GetPublicProfile)
		public.GET("/users/:id/trips", c.user.ListPublishedTrips)
		public.GET("/users/:id/followers", c.follow.ListFollowers)
		public.GET("/users/:id/following", c.follow.ListFollowing)
		public.GET("/users/:id/achievements", c.achievement.ListByUser)
	}
}

func (a *App) registerUserRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/me", c.auth.Me)
	group.PUT("/profile", c.user.UpdateProfile)
	group.POST("/profile/avatar", c.user.UploadAvatar)
}

func (a *App) registerTripRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/trips", c.trip.Create)
	group.GET("/trips", c.trip.ListMine)
	group.PUT("/trips/:id", c.trip.Update)
	group.DELETE("/trips/:id", c.trip.Delete)
	group.POST("/trips/:id/publish", c.trip.Publish)
	group.POST("/trips/:id/unpublish", c.trip.Unpublish)
	group.PUT("/trips/:id/locations", c.trip.ReplaceLocations)

	group.POST("/trips/:id/photos", c.photo.Upload)
	group.PUT("/trips/:id/photos/reorder", c.photo.Reorder)
	group.PUT("/trips/:id/photos/:photoId", c.photo.UpdateCaption)
	group.DELETE("/trips/:id/photos/:photoId", c.photo.Delete)

	group.POST("/trips/:id/tags", c.tag.Attach)
	group.DELETE("/trips/:id/tags/:tagId", c.tag.Detach)

	group.POST("/trips/:id/gpx", c.route.UploadGPX)
	group.DELETE("/trips/:id/route", c.route.DeleteRoute)
}

func (a *App) registerSocialRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/users/:id/follow", c.follow.Follow)
	group.DELETE("/users/:id/follow", c.follow.Unfollow)
	group.GET("/feed/following", c.feed.Following)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.PUT("/users/:id/disabled", c.admin.SetUserDisabled)
		admin.POST("/achievements", c.admin.CreateAchievement)
		admin.POST("/tags/reconcile", c.admin.ReconcileTags)
	}
}
