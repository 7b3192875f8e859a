package controller

import (
	"errors"

	"ridelog_backend/internal/service"
	"ridelog_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
	TripService *service.TripService
}

func NewUserController(userService *service.UserService, tripService *service.TripService) *UserController {
	return &UserController{
		UserService: userService,
		TripService: tripService,
	}
}

// GetPublicProfile godoc
// @Summary 公开主页
// @Description 返回指定用户的公开资料和累计统计
// @Tags 用户
// @Produce  json
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.PublicProfile} "获取成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id} [get]
func (c *UserController) GetPublicProfile(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))

	profile, err := c.UserService.GetPublicProfile(userID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}

// ListPublishedTrips godoc
// @Summary 用户已发布游记
// @Description 按发布时间倒序返回指定用户的已发布游记
// @Tags 用户
// @Produce  json
// @Param   id path int true "用户ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "获取成功"
// @Router /api/users/{id}/trips [get]
func (c *UserController) ListPublishedTrips(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	trips, total, err := c.TripService.ListPublishedByUser(userID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: trips, Total: total, Page: page, Limit: limit})
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Description 修改当前用户的展示名、简介、单位偏好等
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileRequest true "资料内容"
// @Success 200 {object} util.Response{data=model.UserProfile} "更新成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Description 上传图片文件作为当前用户头像
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "头像图片"
// @Success 200 {object} util.Response{data=object} "上传成功"
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/profile/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), claims.UserID, file)
	if err != nil {
		if errors.Is(err, util.ErrInvalidFileType) {
			util.BadRequest(ctx, "仅支持图片文件")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}

// Search godoc
// @Summary 搜索用户
// @Description 按名称或展示名模糊搜索用户
// @Tags 用户
// @Produce  json
// @Param   q query string true "关键词"
// @Success 200 {object} util.Response{data=[]model.User} "获取成功"
// @Router /api/users/search [get]
func (c *UserController) Search(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		util.BadRequest(ctx, "缺少搜索关键词")
		return
	}

	users, err := c.UserService.Search(query)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, users)
}
