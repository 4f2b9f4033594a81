package controller

import (
	"fmt"
	"path/filepath"
	"strconv"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/service"
	"talent_nest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 档案相关的HTTP请求
type UserController struct {
	UserService *service.UserService
	Storage     *service.StorageService
}

func NewUserController(userService *service.UserService, storage *service.StorageService) *UserController {
	return &UserController{
		UserService: userService,
		Storage:     storage,
	}
}

// UpdateProfileRequest 档案更新入参
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Headline string `json:"headline"`
	Company  string `json:"company"`
	Industry string `json:"industry"`
}

// GetUser godoc
// @Summary 查看他人档案
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.UserSummary}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id} [get]
func (uc *UserController) GetUser(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	user, err := uc.UserService.GetUserByID(uint(id))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	// 对外只暴露展示字段
	util.Success(ctx, user.Summary())
}

// UpdateProfile godoc
// @Summary 更新当前用户档案
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body UpdateProfileRequest true "档案字段"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/user/profile [put]
func (uc *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := uc.UserService.UpdateProfile(claims.UserID, service.ProfileUpdate{
		Name:     req.Name,
		Headline: req.Headline,
		Company:  req.Company,
		Industry: req.Industry,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// UploadPhoto godoc
// @Summary 上传头像
// @Tags 用户
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response
// @Router /api/user/photo/upload [post]
func (uc *UserController) UploadPhoto(ctx *gin.Context) {
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

	objectKey := fmt.Sprintf("photos/%d/%s%s", claims.UserID, model.GenerateUUID(), filepath.Ext(file.Filename))
	url, err := uc.Storage.Upload(ctx.Request.Context(), objectKey, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := uc.UserService.SetPictureURL(claims.UserID, url); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"pictureUrl": url})
}
