package controller

import (
	"strconv"

	"talent_nest_backend/internal/service"
	"talent_nest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// MessageController 站内私信
type MessageController struct {
	MsgService *service.MessageService
}

func NewMessageController(msgService *service.MessageService) *MessageController {
	return &MessageController{
		MsgService: msgService,
	}
}

// SendMessageRequest 发送私信入参
// swagger:model SendMessageRequest
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required,max=2000"`
}

// Send godoc
// @Summary 发送私信
// @Description 仅允许向存在活跃关系的对方发送
// @Tags 私信
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SendMessageRequest true "私信内容"
// @Success 201 {object} util.Response{data=model.Message}
// @Failure 403 {object} util.Response "双方不存在活跃关系"
// @Router /api/messages [post]
func (mc *MessageController) Send(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := mc.MsgService.Send(claims.UserID, req.ReceiverID, req.Content)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, msg)
}

// GetConversation godoc
// @Summary 与某人的会话
// @Description 按时间倒序分页返回双方往来消息，读取后自动标记已读
// @Tags 私信
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "对方用户ID"
// @Param limit query int false "默认 50"
// @Param offset query int false "默认 0"
// @Success 200 {object} util.PageResponse{data=[]model.Message}
// @Router /api/messages/conversation/{userId} [get]
func (mc *MessageController) GetConversation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	otherID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 50
	}

	msgs, total, err := mc.MsgService.GetConversation(claims.UserID, uint(otherID), limit, offset)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.SuccessPage(ctx, msgs, total, offset/limit+1, limit)
}
