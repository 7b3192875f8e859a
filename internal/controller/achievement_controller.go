package controller

import (
	"ridelog_backend/internal/service"
	"ridelog_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// ListCatalog godoc
// @Summary 成就目录
// @Description 返回全部可获得的成就定义
// @Tags 成就
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Achievement} "获取成功"
// @Router /api/achievements [get]
func (c *AchievementController) ListCatalog(ctx *gin.Context) {
	achievements, err := c.AchievementService.ListCatalog()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}

// ListByUser godoc
// @Summary 用户已获成就
// @Tags 成就
// @Produce  json
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.UserAchievement} "获取成功"
// @Router /api/users/{id}/achievements [get]
func (c *AchievementController) ListByUser(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))

	earned, err := c.AchievementService.ListByUser(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, earned)
}

// Leaderboard godoc
// @Summary 里程排行榜
// @Description 按累计骑行距离倒序返回用户
// @Tags 成就
// @Produce  json
// @Param   limit query int false "数量，默认 20"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry} "获取成功"
// @Router /api/leaderboard [get]
func (c *AchievementController) Leaderboard(ctx *gin.Context) {
	_, limit := util.ParsePagination("", ctx.Query("limit"))

	entries, err := c.AchievementService.Leaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
