package controller

import (
	"errors"

	"ridelog_backend/internal/service"
	"ridelog_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TagController struct {
	TagService *service.TagService
}

func NewTagController(tagService *service.TagService) *TagController {
	return &TagController{TagService: tagService}
}

// AttachRequest 打标签请求
type AttachRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// Attach godoc
// @Summary 给游记打标签
// @Description 标签名会做大小写和空白归一化，重复打同名标签不报错
// @Tags 标签
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Param   body body AttachRequest true "标签名"
// @Success 200 {object} util.Response{data=model.Tag} "打标签成功"
// @Failure 400 {object} util.Response "标签名不合法或超过数量上限"
// @Router /api/trips/{id}/tags [post]
func (c *TagController) Attach(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))

	var req AttachRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tag, err := c.TagService.Attach(tripID, claims.UserID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidTagName):
			util.BadRequest(ctx, "标签名不合法")
		case errors.Is(err, util.ErrTagLimitReached):
			util.BadRequest(ctx, "单篇游记最多 10 个标签")
		default:
			respondTripError(ctx, err)
		}
		return
	}

	util.Success(ctx, tag)
}

// Detach godoc
// @Summary 移除游记标签
// @Tags 标签
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Param   tagId path int true "标签ID"
// @Success 200 {object} util.Response "移除成功"
// @Router /api/trips/{id}/tags/{tagId} [delete]
func (c *TagController) Detach(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))
	tagID := util.MustParseUint(ctx.Param("tagId"))

	if err := c.TagService.Detach(tripID, claims.UserID, tagID); err != nil {
		respondTripError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// ListByTrip godoc
// @Summary 游记标签列表
// @Tags 标签
// @Produce  json
// @Param   id path int true "游记ID"
// @Success 200 {object} util.Response{data=[]model.Tag} "获取成功"
// @Router /api/trips/{id}/tags [get]
func (c *TagController) ListByTrip(ctx *gin.Context) {
	tripID := util.MustParseUint(ctx.Param("id"))

	tags, err := c.TagService.ListByTrip(tripID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, tags)
}

// ListPopular godoc
// @Summary 热门标签
// @Description 按使用次数倒序返回标签
// @Tags 标签
// @Produce  json
// @Param   limit query int false "数量，默认 20"
// @Success 200 {object} util.Response{data=[]model.Tag} "获取成功"
// @Router /api/tags/popular [get]
func (c *TagController) ListPopular(ctx *gin.Context) {
	_, limit := util.ParsePagination("", ctx.Query("limit"))

	tags, err := c.TagService.ListPopular(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, tags)
}
