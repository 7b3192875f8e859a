package controller

import (
	"errors"

	"ridelog_backend/internal/service"
	"ridelog_backend/internal/util"
	"ridelog_backend/pkg/gpx"

	"github.com/gin-gonic/gin"
)

type RouteController struct {
	GPXService  *service.GPXService
	TripService *service.TripService
}

func NewRouteController(gpxService *service.GPXService, tripService *service.TripService) *RouteController {
	return &RouteController{
		GPXService:  gpxService,
		TripService: tripService,
	}
}

// isGPXError 解析和校验类错误统一按请求错误处理
func isGPXError(err error) bool {
	return errors.Is(err, gpx.ErrMalformedXML) ||
		errors.Is(err, gpx.ErrNoTrack) ||
		errors.Is(err, gpx.ErrNoPoints) ||
		errors.Is(err, gpx.ErrCoordinateRange) ||
		errors.Is(err, gpx.ErrNonMonotonicTime)
}

// UploadGPX godoc
// @Summary 上传 GPX 轨迹
// @Description 解析 GPX 文件，计算距离、爬升、移动时间和坡度并保存简化后的路线。重复上传覆盖旧路线
// @Tags 路线
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Param   file formData file true "GPX 文件"
// @Success 200 {object} util.Response{data=model.TripRoute} "处理成功"
// @Failure 400 {object} util.Response "文件不合法或超过大小限制"
// @Router /api/trips/{id}/gpx [post]
func (c *RouteController) UploadGPX(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	route, err := c.GPXService.ProcessUpload(tripID, claims.UserID, src)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrGPXTooLarge):
			util.BadRequest(ctx, "GPX 文件超过大小限制")
		case isGPXError(err):
			util.BadRequest(ctx, err.Error())
		default:
			respondTripError(ctx, err)
		}
		return
	}

	util.Success(ctx, route)
}

// GetRoute godoc
// @Summary 路线详情
// @Description 返回游记的路线统计和简化后的轨迹点
// @Tags 路线
// @Produce  json
// @Param   id path int true "游记ID"
// @Success 200 {object} util.Response{data=model.TripRoute} "获取成功"
// @Failure 404 {object} util.Response "路线不存在"
// @Router /api/trips/{id}/route [get]
func (c *RouteController) GetRoute(ctx *gin.Context) {
	tripID := util.MustParseUint(ctx.Param("id"))

	var viewerID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		viewerID = claims.UserID
	}

	// 草稿路线只有作者可见
	if _, err := c.TripService.GetVisible(tripID, viewerID); err != nil {
		respondTripError(ctx, err)
		return
	}

	route, err := c.GPXService.GetRoute(tripID)
	if err != nil {
		if errors.Is(err, util.ErrRouteNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, route)
}

// DeleteRoute godoc
// @Summary 删除路线
// @Description 删除游记路线并回退统计数据
// @Tags 路线
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "路线不存在"
// @Router /api/trips/{id}/route [delete]
func (c *RouteController) DeleteRoute(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))

	if err := c.GPXService.DeleteRoute(tripID, claims.UserID); err != nil {
		if errors.Is(err, util.ErrRouteNotFound) {
			util.NotFound(ctx)
		} else {
			respondTripError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
