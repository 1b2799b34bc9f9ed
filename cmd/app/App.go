package app

import (
	"context"
	"sync"

	"directchat/configs"
	"directchat/internal/handlers"
	"directchat/internal/hub"
	"directchat/internal/repositories"
	"directchat/internal/servers/database"
	"directchat/internal/servers/http"
	"directchat/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.initializeConfigs()
	app.initializeRedis()

	db := database.GetDB(app.configs)
	conversationRepo := repositories.NewConversationRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	chatHub := hub.NewChatHub(app.ctx, app.redis, messageRepo)
	chatService := services.NewChatService(conversationRepo, messageRepo, chatHub)

	restHandler := handlers.NewRestHandler(chatService)
	socketChatHandler := handlers.NewSocketChatHandler(chatHub, chatService)

	http.NewHttpServer(
		app.ctx,
		app.configs,
		restHandler,
		socketChatHandler,
		chatHub,
	).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.addr"),
	})
}

func (app *App) initializeConfigs() {
	app.configs = configs.GetConfig()
}
