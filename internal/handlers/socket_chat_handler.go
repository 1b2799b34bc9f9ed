package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"directchat/internal/enums"
	"directchat/internal/errs"
	"directchat/internal/hub"
	"directchat/internal/models"
	socketModels "directchat/internal/models/socket"
	"directchat/internal/msgs"
	"directchat/internal/services"
	"directchat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// SocketChatHandler owns the websocket surface: one authenticated socket per
// connection, registered into the caller's user group so every device gets
// each push. Commands arrive as SocketEvent envelopes.
type SocketChatHandler struct {
	upgrader    websocket.Upgrader
	hub         *hub.ChatHub
	chatService *services.ChatService
}

func NewSocketChatHandler(chatHub *hub.ChatHub, chatService *services.ChatService) *SocketChatHandler {
	return &SocketChatHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		hub:         chatHub,
		chatService: chatService,
	}
}

func (sch *SocketChatHandler) StartSocket() {
	go sch.hub.Run()
}

func (sch *SocketChatHandler) HandleSocketRoute(ctx *gin.Context) {
	jwtToken := ctx.Request.Header.Get("Authorization")
	if strings.Contains(jwtToken, "Bearer") {
		jwtToken = strings.Replace(jwtToken, "Bearer ", "", 1)
	}
	if jwtToken == "" {
		jwtToken = ctx.Query("token")
	}
	if jwtToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgYouMustLoginFirst,
			Errors:  models.ErrorStrings([]error{errs.ErrUnauthorized}),
		})
		return
	}

	claims, err := utils.VerifyToken(jwtToken, utils.GetJwtKey())
	if err != nil || claims.ID == 0 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgYouMustLoginFirst,
			Errors:  models.ErrorStrings([]error{errs.ErrInvalidToken}),
		})
		return
	}

	sch.handleConnection(ctx, claims)
}

func (sch *SocketChatHandler) handleConnection(ctx *gin.Context, claims *models.Claims) {
	ws, err := sch.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer func(ws *websocket.Conn) {
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}(ws)

	client := &hub.SocketClient{
		Conn:   ws,
		UserID: claims.ID,
	}
	sch.hub.Register(client)
	defer sch.hub.Unregister(client)

	sch.readLoop(ws, client, claims)
}

func (sch *SocketChatHandler) readLoop(ws *websocket.Conn, client *hub.SocketClient, claims *models.Claims) {
	for {
		var event socketModels.SocketEvent
		if err := ws.ReadJSON(&event); err != nil {
			log.Printf("Error reading json from user %d: %v", claims.ID, err)
			break
		}

		switch event.Event {
		case enums.SOCKET_EVENT_SEND_MESSAGE:
			if errors := sch.handleSendMessageEvent(event, claims); len(errors) > 0 {
				log.Printf("Error handling send message event from user %d: %v", claims.ID, errors)
				sch.writeErrorEvent(client, errors)
			}
		case enums.SOCKET_EVENT_JOIN_CONVERSATION:
			if errors := sch.handleJoinConversationEvent(event, client, claims); len(errors) > 0 {
				log.Printf("Error handling join conversation event from user %d: %v", claims.ID, errors)
				sch.writeErrorEvent(client, errors)
			}
		case enums.SOCKET_EVENT_MARK_READ:
			if errors := sch.chatService.MarkConversationAsRead(event.ConversationID, claims.ID); len(errors) > 0 {
				log.Printf("Error handling mark read event from user %d: %v", claims.ID, errors)
				sch.writeErrorEvent(client, errors)
			}
		default:
			log.Printf("Unknown event from user %d: %v", claims.ID, event.Event)
		}
	}
}

func (sch *SocketChatHandler) handleSendMessageEvent(event socketModels.SocketEvent, claims *models.Claims) []error {
	var payload socketModels.SendMessagePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return []error{errs.ErrInvalidRequestBody}
	}

	// The service fans the saved message out to every participant, the
	// sender's own devices included.
	_, errors := sch.chatService.SendMessage(
		event.ConversationID,
		claims.ID,
		claims.Tag,
		payload.Content,
		payload.MessageType,
	)
	return errors
}

func (sch *SocketChatHandler) handleJoinConversationEvent(event socketModels.SocketEvent, client *hub.SocketClient, claims *models.Claims) []error {
	if _, errors := sch.chatService.GetConversation(event.ConversationID, claims.ID); len(errors) > 0 {
		return errors
	}
	sch.hub.JoinConversation(client, event.ConversationID)
	return nil
}

func (sch *SocketChatHandler) writeErrorEvent(client *hub.SocketClient, errors []error) {
	payload, err := json.Marshal(socketModels.ErrorPayload{
		Errors: models.ErrorStrings(errors),
	})
	if err != nil {
		return
	}
	if err := client.Conn.WriteJSON(socketModels.SocketEvent{
		Event:   enums.SOCKET_EVENT_ERROR,
		Payload: payload,
	}); err != nil {
		log.Printf("Error writing error event: %v", err)
	}
}
