package controller

import (
	"ridelog_backend/internal/service"
	"ridelog_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FeedController struct {
	FeedService *service.FeedService
}

func NewFeedController(feedService *service.FeedService) *FeedController {
	return &FeedController{FeedService: feedService}
}

// Public godoc
// @Summary 公开动态流
// @Description 按发布时间倒序返回已发布游记，可按标签过滤
// @Tags 动态
// @Produce  json
// @Param   tag query string false "标签名过滤"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "获取成功"
// @Router /api/feed [get]
func (c *FeedController) Public(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	trips, total, err := c.FeedService.Public(ctx.Query("tag"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: trips, Total: total, Page: page, Limit: limit})
}

// Following godoc
// @Summary 关注动态流
// @Description 返回当前用户关注的作者发布的游记
// @Tags 动态
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "获取成功"
// @Router /api/feed/following [get]
func (c *FeedController) Following(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	trips, total, err := c.FeedService.Following(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: trips, Total: total, Page: page, Limit: limit})
}
