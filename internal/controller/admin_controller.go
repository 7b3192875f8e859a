package controller

import (
	"errors"

	"ridelog_backend/internal/service"
	"ridelog_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	UserService        *service.UserService
	TagService         *service.TagService
	AchievementService *service.AchievementService
}

func NewAdminController(
	userService *service.UserService,
	tagService *service.TagService,
	achievementService *service.AchievementService,
) *AdminController {
	return &AdminController{
		UserService:        userService,
		TagService:         tagService,
		AchievementService: achievementService,
	}
}

// DisableRequest 封禁/解封请求
type DisableRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SetUserDisabled godoc
// @Summary 封禁或解封用户
// @Description 被封禁用户无法登录
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Param   body body DisableRequest true "封禁状态"
// @Success 200 {object} util.Response "设置成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id}/disabled [put]
func (c *AdminController) SetUserDisabled(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))

	var req DisableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetDisabled(userID, *req.Disabled); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// CreateAchievement godoc
// @Summary 新增成就定义
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.AchievementRequest true "成就定义"
// @Success 201 {object} util.Response{data=model.Achievement} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/achievements [post]
func (c *AdminController) CreateAchievement(ctx *gin.Context) {
	var req service.AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement, err := c.AchievementService.CreateAchievement(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, achievement)
}

// ReconcileTags godoc
// @Summary 校准标签计数
// @Description 按关联表重新统计标签使用次数
// @Tags 管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response "校准完成"
// @Router /api/admin/tags/reconcile [post]
func (c *AdminController) ReconcileTags(ctx *gin.Context) {
	if err := c.TagService.Reconcile(); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
