package controller

import (
	"errors"

	"ridelog_backend/internal/service"
	"ridelog_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PhotoController struct {
	PhotoService *service.PhotoService
}

func NewPhotoController(photoService *service.PhotoService) *PhotoController {
	return &PhotoController{PhotoService: photoService}
}

// Upload godoc
// @Summary 上传照片
// @Description 为游记上传一张照片，自动生成缩略图并追加到末尾
// @Tags 照片
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Param   file formData file true "照片文件"
// @Param   caption formData string false "照片说明"
// @Success 201 {object} util.Response{data=model.TripPhoto} "上传成功"
// @Failure 400 {object} util.Response "文件类型不支持或超过数量上限"
// @Router /api/trips/{id}/photos [post]
func (c *PhotoController) Upload(ctx *gin.Context) {
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
	if file.Size > int64(util.MaxPhotoSizeMB)<<20 {
		util.BadRequest(ctx, "照片文件过大")
		return
	}

	photo, err := c.PhotoService.Upload(ctx.Request.Context(), tripID, claims.UserID, file, ctx.PostForm("caption"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPhotoLimitReached):
			util.BadRequest(ctx, "单篇游记最多 20 张照片")
		case errors.Is(err, util.ErrInvalidFileType):
			util.BadRequest(ctx, "仅支持图片文件")
		default:
			respondTripError(ctx, err)
		}
		return
	}

	util.Created(ctx, photo)
}

// List godoc
// @Summary 照片列表
// @Description 按展示顺序返回游记的全部照片
// @Tags 照片
// @Produce  json
// @Param   id path int true "游记ID"
// @Success 200 {object} util.Response{data=[]model.TripPhoto} "获取成功"
// @Router /api/trips/{id}/photos [get]
func (c *PhotoController) List(ctx *gin.Context) {
	tripID := util.MustParseUint(ctx.Param("id"))

	photos, err := c.PhotoService.List(tripID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, photos)
}

// CaptionRequest 照片说明
type CaptionRequest struct {
	Caption string `json:"caption" binding:"max=500"`
}

// UpdateCaption godoc
// @Summary 修改照片说明
// @Tags 照片
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Param   photoId path int true "照片ID"
// @Param   body body CaptionRequest true "说明内容"
// @Success 200 {object} util.Response "修改成功"
// @Failure 404 {object} util.Response "照片不存在"
// @Router /api/trips/{id}/photos/{photoId} [put]
func (c *PhotoController) UpdateCaption(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))
	photoID := util.MustParseUint(ctx.Param("photoId"))

	var req CaptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.PhotoService.UpdateCaption(tripID, claims.UserID, photoID, req.Caption)
	if err != nil {
		if errors.Is(err, util.ErrPhotoNotFound) {
			util.NotFound(ctx)
		} else {
			respondTripError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// ReorderRequest 照片排序
type ReorderRequest struct {
	PhotoIDs []uint `json:"photoIds" binding:"required,min=1"`
}

// Reorder godoc
// @Summary 调整照片顺序
// @Description 按提交的 ID 顺序整体重排游记照片
// @Tags 照片
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Param   body body ReorderRequest true "照片ID列表"
// @Success 200 {object} util.Response{data=[]model.TripPhoto} "排序成功"
// @Failure 400 {object} util.Response "ID 列表与现有照片不一致"
// @Router /api/trips/{id}/photos/reorder [put]
func (c *PhotoController) Reorder(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))

	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	photos, err := c.PhotoService.Reorder(tripID, claims.UserID, req.PhotoIDs)
	if err != nil {
		if errors.Is(err, util.ErrPhotoNotFound) {
			util.BadRequest(ctx, "照片ID列表与游记现有照片不一致")
		} else {
			respondTripError(ctx, err)
		}
		return
	}

	util.Success(ctx, photos)
}

// Delete godoc
// @Summary 删除照片
// @Description 删除照片记录并清理存储中的文件
// @Tags 照片
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "游记ID"
// @Param   photoId path int true "照片ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "照片不存在"
// @Router /api/trips/{id}/photos/{photoId} [delete]
func (c *PhotoController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tripID := util.MustParseUint(ctx.Param("id"))
	photoID := util.MustParseUint(ctx.Param("photoId"))

	err := c.PhotoService.Delete(ctx.Request.Context(), tripID, claims.UserID, photoID)
	if err != nil {
		if errors.Is(err, util.ErrPhotoNotFound) {
			util.NotFound(ctx)
		} else {
			respondTripError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
