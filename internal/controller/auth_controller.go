package controller

import (
	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/service"
	"talent_nest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService         *service.AuthService
	VerificationService *service.VerificationService
}

func NewAuthController(authService *service.AuthService, verificationService *service.VerificationService) *AuthController {
	return &AuthController{
		AuthService:         authService,
		VerificationService: verificationService,
	}
}

// RegisterRequest 注册入参
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Headline string `json:"headline"`
	Company  string `json:"company"`
	Industry string `json:"industry"`
}

// LoginRequest 登录入参
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerificationRequest 请求验证码
// swagger:model VerificationRequest
type VerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerificationConfirm 校验验证码
// swagger:model VerificationConfirm
type VerificationConfirm struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// Register godoc
// @Summary 注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 409 {object} util.Response "邮箱已注册"
// @Router /api/register [post]
func (ac *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Headline: req.Headline,
		Company:  req.Company,
		Industry: req.Industry,
		Role:     model.Member,
	}
	if err := ac.AuthService.Register(user); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, user)
}

// Login godoc
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response "凭证错误"
// @Router /api/login [post]
func (ac *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := ac.AuthService.Login(req.Email, req.Password)
	if err != nil {
		util.Error(ctx, 401, "invalid credentials")
		return
	}

	util.Success(ctx, gin.H{"token": token})
}

// RequestVerification godoc
// @Summary 请求邮箱验证码
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body VerificationRequest true "邮箱"
// @Success 200 {object} util.Response
// @Router /api/auth/verification/request [post]
func (ac *AuthController) RequestVerification(ctx *gin.Context) {
	var req VerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := ac.VerificationService.RequestCode(req.Email); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// ConfirmVerification godoc
// @Summary 校验邮箱验证码
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body VerificationConfirm true "邮箱和验证码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "验证码错误或过期"
// @Router /api/auth/verification/confirm [post]
func (ac *AuthController) ConfirmVerification(ctx *gin.Context) {
	var req VerificationConfirm
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := ac.VerificationService.ConfirmCode(req.Email, req.Code); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// GetProfile godoc
// @Summary 当前用户档案
// @Tags 认证
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [get]
func (ac *AuthController) GetProfile(ctx *gin.Context) {
	user := ac.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, user)
}
