package controller

import (
	"errors"

	"ridelog_backend/internal/model"
	"ridelog_backend/internal/service"
	"ridelog_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TripController struct {
	TripService *service.TripService
}

func NewTripController(tripService *service.TripService) *TripController {
	return &TripController{TripService: tripService}
}

// respondTripError 游记相关错误的统一映射
func respondTripError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrTripNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrVersionConflict):
		util.Conflict(ctx, "游记已被其他请求修改，请刷新后重试")
	case errors.Is(err, util.ErrTripNotPublishable):
		util.BadRequest(ctx, "发布前需要填写标题，并至少有一条路线或一个地点")
	default:
		util.LogInternalError(ctx, err)
	}
}

// Create godoc
// @Summary 创建游记
// @Description 创建一篇草稿状态的骑行游记
// @Tags 游记
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.TripRequest true "游记内容"
// @Success 201 {object} util.Response{data=model.Trip} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/trips [post]
func (c *TripController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.TripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	trip, err := c.TripService.Create(claims.UserID, req)
	if err != nil {
		respondTripError(ctx, err)
		return
	}

	util.Created(ctx, trip)
}

// Get godoc
// @Summary 游记详情
// @Description 返回游记及照片、地点、标签、路线。草稿仅作者可见
// @Tags 游记
// @Produce  json
// @Param   id path int true "游记ID"
// @Success 200 {object} util.Response{data=model.Trip} "获取成功"
// @Failure 404 {object} util.Response "游记不存在或不可见"
// @Router /api/trips/{id} [get]
func (c *TripController) Get(ctx *gin.Context) {
	tripID := util.MustParseUint(ctx.Param("id"))

	var viewerID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		viewerID = claims.UserID
	}

	trip, err := c.TripService.GetVisible(tripID, viewerID)
	if err != nil {
		respondTripError(ctx, err)
		return
	}

	util.Success(ctx, trip)
}

// Update godoc
// @Summary 更新游记
// @Description 按乐观锁版本号更新标题、描述和日期
// @Tags 游记
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Param   body body service.TripUpdateRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.Trip} "更新成功"
// @Failure 409 {object} util.Response "版本冲突"
// @Router /api/trips/{id} [put]
func (c *TripController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))

	var req service.TripUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	trip, err := c.TripService.Update(tripID, claims.UserID, req)
	if err != nil {
		respondTripError(ctx, err)
		return
	}

	util.Success(ctx, trip)
}

// Delete godoc
// @Summary 删除游记
// @Description 删除游记及其照片、地点、标签关联和路线
// @Tags 游记
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "游记不存在"
// @Router /api/trips/{id} [delete]
func (c *TripController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))

	if err := c.TripService.Delete(tripID, claims.UserID); err != nil {
		respondTripError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Publish godoc
// @Summary 发布游记
// @Description 将草稿游记公开到动态流，需满足发布条件
// @Tags 游记
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Success 200 {object} util.Response{data=model.Trip} "发布成功"
// @Failure 400 {object} util.Response "不满足发布条件"
// @Router /api/trips/{id}/publish [post]
func (c *TripController) Publish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))

	trip, err := c.TripService.Publish(tripID, claims.UserID)
	if err != nil {
		respondTripError(ctx, err)
		return
	}

	util.Success(ctx, trip)
}

// Unpublish godoc
// @Summary 撤回游记
// @Description 将已发布游记退回草稿状态
// @Tags 游记
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Success 200 {object} util.Response{data=model.Trip} "撤回成功"
// @Router /api/trips/{id}/unpublish [post]
func (c *TripController) Unpublish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))

	trip, err := c.TripService.Unpublish(tripID, claims.UserID)
	if err != nil {
		respondTripError(ctx, err)
		return
	}

	util.Success(ctx, trip)
}

// ListMine godoc
// @Summary 我的游记
// @Description 返回当前用户的游记，可按状态过滤
// @Tags 游记
// @Produce  json
// @Security BearerAuth
// @Param   status query string false "状态 draft/published"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "获取成功"
// @Router /api/trips [get]
func (c *TripController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	status := model.TripStatus(ctx.Query("status"))
	if status != "" && status != model.TripDraft && status != model.TripPublished {
		util.BadRequest(ctx, "状态仅支持 draft 或 published")
		return
	}

	trips, total, err := c.TripService.ListMine(claims.UserID, status, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: trips, Total: total, Page: page, Limit: limit})
}

// ReplaceLocations godoc
// @Summary 设置途经地点
// @Description 整体替换游记的地点列表，按途经顺序提交
// @Tags 游记
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Param   body body []service.LocationRequest true "地点列表"
// @Success 200 {object} util.Response{data=[]model.TripLocation} "设置成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/trips/{id}/locations [put]
func (c *TripController) ReplaceLocations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))

	var reqs []service.LocationRequest
	if err := ctx.ShouldBindJSON(&reqs); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	locations, err := c.TripService.ReplaceLocations(tripID, claims.UserID, reqs)
	if err != nil {
		respondTripError(ctx, err)
		return
	}

	util.Success(ctx, locations)
}
