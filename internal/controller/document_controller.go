package controller

import (
	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/service"
	"talent_nest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DocumentController 简历/求职信管理
type DocumentController struct {
	DocService *service.DocumentService
}

func NewDocumentController(docService *service.DocumentService) *DocumentController {
	return &DocumentController{
		DocService: docService,
	}
}

// Upload godoc
// @Summary 上传文档
// @Description 上传简历或求职信，type 取 resume / cover_letter
// @Tags 文档
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "文档文件"
// @Param type formData string true "resume 或 cover_letter"
// @Success 201 {object} util.Response{data=model.Document}
// @Failure 400 {object} util.Response "入参错误"
// @Router /api/documents/upload [post]
func (dc *DocumentController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	docType := model.DocumentType(ctx.PostForm("type"))
	doc, err := dc.DocService.Upload(ctx.Request.Context(), claims.UserID, docType, file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, doc)
}

// List godoc
// @Summary 我的文档列表
// @Tags 文档
// @Produce json
// @Security ApiKeyAuth
// @Param type query string false "resume 或 cover_letter"
// @Success 200 {object} util.Response{data=[]model.Document}
// @Router /api/documents [get]
func (dc *DocumentController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var docType *model.DocumentType
	if raw := ctx.Query("type"); raw != "" {
		t := model.DocumentType(raw)
		docType = &t
	}

	docs, err := dc.DocService.ListOwn(claims.UserID, docType)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, docs)
}

// DownloadURL godoc
// @Summary 获取文档下载地址
// @Description 所有者直接放行；求职信额外允许所有者的活跃经纪人读取
// @Tags 文档
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "文档ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "无访问权限"
// @Failure 404 {object} util.Response "文档不存在"
// @Router /api/documents/{id}/download [get]
func (dc *DocumentController) DownloadURL(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	url, err := dc.DocService.DownloadURL(ctx.Request.Context(), ctx.Param("id"), claims.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// Delete godoc
// @Summary 删除文档
// @Tags 文档
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "文档ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "非文档所有者"
// @Router /api/documents/{id} [delete]
func (dc *DocumentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := dc.DocService.Delete(ctx.Request.Context(), ctx.Param("id"), claims.UserID); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
