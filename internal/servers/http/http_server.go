package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"directchat/configs"
	"directchat/internal/handlers"
	"directchat/internal/hub"

	"github.com/gin-gonic/gin"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx           context.Context
	config        *configs.Config
	router        *gin.Engine
	restHandler   *handlers.RestHandler
	socketHandler *handlers.SocketChatHandler
	chatHub       *hub.ChatHub
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	restHandler *handlers.RestHandler,
	socketHandler *handlers.SocketChatHandler,
	chatHub *hub.ChatHub,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:           ctx,
			config:        config,
			restHandler:   restHandler,
			socketHandler: socketHandler,
			chatHub:       chatHub,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.router = gin.Default()

	hs.setupRestfulRoutes()
	hs.setupWebSocketRoutes()
	hs.socketHandler.StartSocket()

	server := hs.startServer()
	hs.waitForShutdown(server)
}

func (hs *HttpServer) setupRestfulRoutes() {
	api := hs.router.Group("/api", hs.restHandler.MustAuthenticateMiddleware())
	conversations := api.Group("/conversations")
	conversations.POST("/initiate", hs.restHandler.InitiateConversation)
	conversations.GET("", hs.restHandler.GetConversations)
	conversations.GET("/:conversationId/messages", hs.restHandler.GetConversationMessages)
	conversations.POST("/:conversationId/read", hs.restHandler.MarkConversationAsRead)
}

func (hs *HttpServer) setupWebSocketRoutes() {
	// The socket handler authenticates the upgrade request itself.
	hs.router.GET("/ws", hs.socketHandler.HandleSocketRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(":%d", hs.config.Viper.GetInt("server.port"))
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		log.Printf("HTTP server started on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	hs.chatHub.Shutdown()

	log.Println("Server exiting")
}
