package controller

import (
	"strconv"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/service"
	"talent_nest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// NetworkController 关系图的只读视图
type NetworkController struct {
	QuerySvc *service.RelationshipQueryService
}

func NewNetworkController(querySvc *service.RelationshipQueryService) *NetworkController {
	return &NetworkController{
		QuerySvc: querySvc,
	}
}

func parseKind(ctx *gin.Context) *model.RelationshipKind {
	raw := ctx.Query("kind")
	if raw == "" {
		return nil
	}
	kind := model.RelationshipKind(raw)
	return &kind
}

func parseLimit(ctx *gin.Context) int {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	return limit
}

// GetConnections godoc
// @Summary 我的连接
// @Description 给定状态下连接到的所有人，同一对方只出现一次
// @Tags 人脉
// @Produce json
// @Security ApiKeyAuth
// @Param kind query string false "friend 或 career_agent"
// @Param status query string false "默认 active"
// @Param limit query int false "默认 50"
// @Success 200 {object} util.Response{data=[]service.ConnectionView}
// @Router /api/network/connections [get]
func (nc *NetworkController) GetConnections(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	status := model.RelationshipStatus(ctx.Query("status"))
	views, err := nc.QuerySvc.ListConnected(claims.UserID, parseKind(ctx), status, parseLimit(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// GetRequestsReceived godoc
// @Summary 收到的申请
// @Description 我作为接收方的所有未决申请，按对方聚合并打类型标签
// @Tags 人脉
// @Produce json
// @Security ApiKeyAuth
// @Param kind query string false "friend 或 career_agent"
// @Param limit query int false "默认 50"
// @Success 200 {object} util.Response{data=[]service.RequestView}
// @Router /api/network/requests/received [get]
func (nc *NetworkController) GetRequestsReceived(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	views, err := nc.QuerySvc.ListRequestsReceived(claims.UserID, parseKind(ctx), parseLimit(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// GetRequestsSent godoc
// @Summary 发出的申请
// @Tags 人脉
// @Produce json
// @Security ApiKeyAuth
// @Param kind query string false "friend 或 career_agent"
// @Param limit query int false "默认 50"
// @Success 200 {object} util.Response{data=[]service.RequestView}
// @Router /api/network/requests/sent [get]
func (nc *NetworkController) GetRequestsSent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	views, err := nc.QuerySvc.ListRequestsSent(claims.UserID, parseKind(ctx), parseLimit(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// GetProposalsReceived godoc
// @Summary 收到的邀约
// @Description 我作为候选人收到的 proposed 状态邀约
// @Tags 人脉
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "默认 50"
// @Success 200 {object} util.Response{data=[]service.ProposalView}
// @Router /api/network/proposals/received [get]
func (nc *NetworkController) GetProposalsReceived(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	views, err := nc.QuerySvc.ListProposalsReceived(claims.UserID, parseLimit(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// GetProposalsSent godoc
// @Summary 发出的邀约
// @Description 我作为经纪人发出的 proposed 状态邀约
// @Tags 人脉
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "默认 50"
// @Success 200 {object} util.Response{data=[]service.ProposalView}
// @Router /api/network/proposals/sent [get]
func (nc *NetworkController) GetProposalsSent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	views, err := nc.QuerySvc.ListProposalsSent(claims.UserID, parseLimit(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// GetPotentialContacts godoc
// @Summary 潜在联系人
// @Description 还没有任何非终态关系牵连的用户，按姓名升序
// @Tags 人脉
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "默认 50"
// @Success 200 {object} util.Response{data=[]service.ConnectionView}
// @Router /api/network/potential-contacts [get]
func (nc *NetworkController) GetPotentialContacts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	views, err := nc.QuerySvc.ListPotentialContacts(claims.UserID, parseLimit(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// GetCareerAgentRelationship godoc
// @Summary 活跃经纪关系点查
// @Description 判断 agent 是否是 candidate 的活跃经纪人，文档访问控制调这里
// @Tags 人脉
// @Produce json
// @Security ApiKeyAuth
// @Param agentId query int true "经纪人ID"
// @Param candidateId query int true "候选人ID"
// @Success 200 {object} util.Response{data=model.Relationship}
// @Failure 404 {object} util.Response "不存在活跃经纪关系"
// @Router /api/network/career-agent [get]
func (nc *NetworkController) GetCareerAgentRelationship(ctx *gin.Context) {
	agentID, err := strconv.Atoi(ctx.Query("agentId"))
	if err != nil {
		util.BadRequest(ctx, "invalid agentId")
		return
	}
	candidateID, err := strconv.Atoi(ctx.Query("candidateId"))
	if err != nil {
		util.BadRequest(ctx, "invalid candidateId")
		return
	}

	rel, err := nc.QuerySvc.GetCareerAgentRelationship(uint(agentID), uint(candidateID))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, rel)
}
