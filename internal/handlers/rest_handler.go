package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"directchat/internal/errs"
	"directchat/internal/models"
	"directchat/internal/msgs"
	"directchat/internal/services"
	"directchat/internal/utils"

	"github.com/gin-gonic/gin"
)

const defaultMessagePageSize = 20

type RestHandler struct {
	chatService *services.ChatService
}

func NewRestHandler(chatService *services.ChatService) *RestHandler {
	return &RestHandler{
		chatService: chatService,
	}
}

func (rh *RestHandler) userID(ctx *gin.Context) uint {
	return ctx.GetUint("user_id")
}

func (rh *RestHandler) abortWithErrors(ctx *gin.Context, errors []error) {
	ctx.AbortWithStatusJSON(errs.HttpStatusFromAll(errors), models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  models.ErrorStrings(errors),
	})
}

// InitiateConversation creates the conversation for the caller and the given
// recipient, or returns the existing one. Idempotent for any pair order.
func (rh *RestHandler) InitiateConversation(ctx *gin.Context) {
	var body models.InitiateConversationRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		log.Println("Error initiate conversation json binding:", err)
		rh.abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	conversation, errors := rh.chatService.CreateOrGetConversation(rh.userID(ctx), body.RecipientID)
	if len(errors) > 0 {
		rh.abortWithErrors(ctx, errors)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversation,
	})
}

func (rh *RestHandler) GetConversations(ctx *gin.Context) {
	conversations, errors := rh.chatService.GetUserConversations(rh.userID(ctx))
	if len(errors) > 0 {
		rh.abortWithErrors(ctx, errors)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversations,
	})
}

// GetConversationMessages pages backwards through a conversation, newest
// first. The before query param is an RFC3339 timestamp cursor; messages at
// exactly that instant are excluded.
func (rh *RestHandler) GetConversationMessages(ctx *gin.Context) {
	conversationID, err := parseConversationID(ctx)
	if err != nil {
		rh.abortWithErrors(ctx, []error{err})
		return
	}

	limit := defaultMessagePageSize
	if rawLimit := ctx.Query("limit"); rawLimit != "" {
		limit, err = strconv.Atoi(rawLimit)
		if err != nil {
			rh.abortWithErrors(ctx, []error{errs.ErrInvalidLimit})
			return
		}
	}

	var before *time.Time
	if rawBefore := ctx.Query("before"); rawBefore != "" {
		before, err = utils.StrToTime(rawBefore)
		if err != nil {
			rh.abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
			return
		}
	}

	messages, errors := rh.chatService.GetMessages(conversationID, rh.userID(ctx), before, limit)
	if len(errors) > 0 {
		rh.abortWithErrors(ctx, errors)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data: models.MessageListResponse{
			Messages: messages,
			Limit:    limit,
		},
	})
}

func (rh *RestHandler) MarkConversationAsRead(ctx *gin.Context) {
	conversationID, err := parseConversationID(ctx)
	if err != nil {
		rh.abortWithErrors(ctx, []error{err})
		return
	}

	if errors := rh.chatService.MarkConversationAsRead(conversationID, rh.userID(ctx)); len(errors) > 0 {
		rh.abortWithErrors(ctx, errors)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgConversationMarkedAsRead,
	})
}

func parseConversationID(ctx *gin.Context) (uint, error) {
	raw := ctx.Param("conversationId")
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, errs.ErrInvalidConversationId
	}
	return uint(parsed), nil
}
