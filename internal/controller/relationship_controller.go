package controller

import (
	"time"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/service"
	"talent_nest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// RelationshipController 关系引擎的HTTP入口，所有写操作走这里
type RelationshipController struct {
	RelService *service.RelationshipService
}

func NewRelationshipController(relService *service.RelationshipService) *RelationshipController {
	return &RelationshipController{
		RelService: relService,
	}
}

// CreateDirectRequest 直接建立关系（管理路径）
// swagger:model CreateDirectRequest
type CreateDirectRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=friend career_agent"`
	RequestorID uint   `json:"requestorId"`
	RecipientID uint   `json:"recipientId"`
	AgentID     uint   `json:"agentId"`
	CandidateID uint   `json:"candidateId"`
	InitiatedBy string `json:"initiatedBy" binding:"omitempty,oneof=agent candidate"`
	Status      string `json:"status"`
	Note        string `json:"note"`
}

// RequestRelationshipRequest 申请建立关系
// swagger:model RequestRelationshipRequest
type RequestRelationshipRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=friend career_agent"`
	RecipientID uint   `json:"recipientId" binding:"required"`
	Note        string `json:"note"`
}

// ProposeRequest 经纪人发出邀约
// swagger:model ProposeRequest
type ProposeRequest struct {
	CandidateID uint   `json:"candidateId" binding:"required"`
	Note        string `json:"note"`
}

// RejectRequest 拒绝时可附带说明
// swagger:model RejectRequest
type RejectRequest struct {
	Note string `json:"note"`
}

// UpdateRelationshipRequest 管理/界面直改
// swagger:model UpdateRelationshipRequest
type UpdateRelationshipRequest struct {
	Status  *string    `json:"status" binding:"omitempty,oneof=requested proposed pending active inactive rejected"`
	Note    *string    `json:"note"`
	EndDate *time.Time `json:"endDate"`
}

// CreateDirect godoc
// @Summary 直接建立关系
// @Description 管理路径：跳过申请流程直接落一条关系记录，默认状态 active
// @Tags 关系
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateDirectRequest true "关系信息"
// @Success 201 {object} util.Response{data=model.Relationship}
// @Failure 400 {object} util.Response "入参错误"
// @Failure 404 {object} util.Response "档案不存在"
// @Failure 409 {object} util.Response "与现有记录冲突"
// @Router /api/relationships [post]
func (rc *RelationshipController) CreateDirect(ctx *gin.Context) {
	var req CreateDirectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rel, err := rc.RelService.CreateDirect(service.CreateDirectInput{
		Kind:        model.RelationshipKind(req.Kind),
		RequestorID: req.RequestorID,
		RecipientID: req.RecipientID,
		AgentID:     req.AgentID,
		CandidateID: req.CandidateID,
		InitiatedBy: req.InitiatedBy,
		Status:      model.RelationshipStatus(req.Status),
		Note:        req.Note,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, rel)
}

// Request godoc
// @Summary 申请建立关系
// @Description 好友申请，或候选人向经纪人发起的申请，初始状态 requested
// @Tags 关系
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body RequestRelationshipRequest true "申请信息"
// @Success 201 {object} util.Response{data=model.Relationship}
// @Failure 409 {object} util.Response "已存在未结记录或候选人已有活跃经纪人"
// @Router /api/relationships/request [post]
func (rc *RelationshipController) Request(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RequestRelationshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rel, err := rc.RelService.Request(model.RelationshipKind(req.Kind), claims.UserID, req.RecipientID, req.Note)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, rel)
}

// Propose godoc
// @Summary 经纪人发出邀约
// @Description 当前用户作为经纪人向候选人发出 career_agent 邀约，初始状态 proposed
// @Tags 关系
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ProposeRequest true "邀约信息"
// @Success 201 {object} util.Response{data=model.Relationship}
// @Failure 409 {object} util.Response "候选人已有活跃经纪人"
// @Router /api/relationships/propose [post]
func (rc *RelationshipController) Propose(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ProposeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rel, err := rc.RelService.Propose(claims.UserID, req.CandidateID, req.Note)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, rel)
}

// Accept godoc
// @Summary 同意申请/邀约
// @Description 只有接收方可以同意；提交时刻重新校验候选人排他性
// @Tags 关系
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "关系ID"
// @Success 200 {object} util.Response{data=model.Relationship}
// @Failure 403 {object} util.Response "非接收方"
// @Failure 409 {object} util.Response "状态不允许或排他性冲突"
// @Router /api/relationships/{id}/accept [post]
func (rc *RelationshipController) Accept(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rel, err := rc.RelService.Accept(ctx.Param("id"), claims.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, rel)
}

// Reject godoc
// @Summary 拒绝申请/邀约
// @Tags 关系
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "关系ID"
// @Param body body RejectRequest false "拒绝说明"
// @Success 200 {object} util.Response{data=model.Relationship}
// @Failure 403 {object} util.Response "非接收方"
// @Router /api/relationships/{id}/reject [post]
func (rc *RelationshipController) Reject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RejectRequest
	_ = ctx.ShouldBindJSON(&req)

	rel, err := rc.RelService.Reject(ctx.Param("id"), claims.UserID, req.Note)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, rel)
}

// Update godoc
// @Summary 更新关系
// @Description 关系一方可直接修改 status/note/endDate；置 inactive 自动补 endDate
// @Tags 关系
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "关系ID"
// @Param body body UpdateRelationshipRequest true "更新字段"
// @Success 200 {object} util.Response{data=model.Relationship}
// @Failure 403 {object} util.Response "非关系一方"
// @Failure 409 {object} util.Response "终态不可再变更"
// @Router /api/relationships/{id} [patch]
func (rc *RelationshipController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateRelationshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	input := service.UpdateRelationshipInput{
		Note:    req.Note,
		EndDate: req.EndDate,
	}
	if req.Status != nil {
		status := model.RelationshipStatus(*req.Status)
		input.Status = &status
	}

	rel, err := rc.RelService.Update(ctx.Param("id"), claims.UserID, input)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, rel)
}

// Delete godoc
// @Summary 删除关系
// @Description 管理清理用的物理删除；正常的关系终止走 inactive/rejected
// @Tags 关系
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "关系ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "关系不存在"
// @Router /api/relationships/{id} [delete]
func (rc *RelationshipController) Delete(ctx *gin.Context) {
	if err := rc.RelService.Delete(ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
