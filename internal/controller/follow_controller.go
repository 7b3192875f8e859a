package controller

import (
	"errors"

	"ridelog_backend/internal/service"
	"ridelog_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FollowController struct {
	FollowService *service.FollowService
}

func NewFollowController(followService *service.FollowService) *FollowController {
	return &FollowController{FollowService: followService}
}

// Follow godoc
// @Summary 关注用户
// @Tags 社交
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "被关注用户ID"
// @Success 200 {object} util.Response "关注成功"
// @Failure 400 {object} util.Response "不能关注自己"
// @Failure 404 {object} util.Response "用户不存在"
// @Failure 409 {object} util.Response "已经关注过"
// @Router /api/users/{id}/follow [post]
func (c *FollowController) Follow(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	targetID := util.MustParseUint(ctx.Param("id"))

	if err := c.FollowService.Follow(claims.UserID, targetID); err != nil {
		switch {
		case errors.Is(err, util.ErrSelfFollow):
			util.BadRequest(ctx, "不能关注自己")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyFollowing):
			util.Conflict(ctx, "已经关注过该用户")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// Unfollow godoc
// @Summary 取消关注
// @Tags 社交
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "被关注用户ID"
// @Success 200 {object} util.Response "取消成功"
// @Failure 404 {object} util.Response "未关注该用户"
// @Router /api/users/{id}/follow [delete]
func (c *FollowController) Unfollow(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	targetID := util.MustParseUint(ctx.Param("id"))

	if err := c.FollowService.Unfollow(claims.UserID, targetID); err != nil {
		if errors.Is(err, util.ErrNotFollowing) {
			util.Error(ctx, 404, "未关注该用户")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// ListFollowers godoc
// @Summary 粉丝列表
// @Tags 社交
// @Produce  json
// @Param   id path int true "用户ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "获取成功"
// @Router /api/users/{id}/followers [get]
func (c *FollowController) ListFollowers(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	users, total, err := c.FollowService.ListFollowers(userID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// ListFollowing godoc
// @Summary 关注列表
// @Tags 社交
// @Produce  json
// @Param   id path int true "用户ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "获取成功"
// @Router /api/users/{id}/following [get]
func (c *FollowController) ListFollowing(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	users, total, err := c.FollowService.ListFollowing(userID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}
