package app

import (
	"fmt"
	"time"

	"assist_backend/database"
	"assist_backend/internal/config"
	"assist_backend/internal/email"
	"assist_backend/internal/handlers"
	"assist_backend/internal/logger"
	"assist_backend/internal/middleware"
	"assist_backend/internal/repositories"
	"assist_backend/internal/routes"
	"assist_backend/internal/services"
	"assist_backend/internal/validator"
	"assist_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Migrations applied")

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, gormDB)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем WebSocket.
	// Менеджер реализует MessageNotifier, подключаем его к чату
	// после создания (сервисы создаются раньше ws-слоя).
	wsManager := ws.NewWebSocketManager(serviceContainer.ChatService)
	go wsManager.Run()
	serviceContainer.ChatService.SetNotifier(wsManager)
	wsHandler := ws.NewWebSocketHandler(wsManager)

	// 4. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg)

	// 5. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	emailService := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
		VerifyURL: cfg.Email.VerifyURL,
		Timeout:   30 * time.Second,
	})

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository(gormDB)
	profileRepo := repositories.NewProfileRepository(gormDB)
	linkingRepo := repositories.NewLinkingRepository(gormDB)
	requestRepo := repositories.NewRequestRepository(gormDB)
	messageRepo := repositories.NewMessageRepository(gormDB)
	buttonRepo := repositories.NewButtonRepository(gormDB)
	settingsRepo := repositories.NewSettingsRepository(gormDB)

	// --- Инициализация сервисов ---
	codeTTL := time.Duration(cfg.Linking.CodeTTLHours) * time.Hour
	authService := services.NewAuthService(userRepo, profileRepo, settingsRepo, buttonRepo, emailService)
	profileService := services.NewProfileService(userRepo, profileRepo)
	linkingService := services.NewLinkingService(linkingRepo, userRepo, profileRepo, codeTTL)
	requestService := services.NewRequestService(requestRepo, linkingRepo, userRepo, profileRepo, emailService)
	chatService := services.NewChatService(messageRepo, requestRepo)
	buttonService := services.NewButtonService(buttonRepo)
	settingsService := services.NewSettingsService(settingsRepo)

	// Фоновая чистка протухших refresh-токенов
	go runTokenJanitor(authService)

	return &services.ServiceContainer{
		AuthService:     authService,
		ProfileService:  profileService,
		LinkingService:  linkingService,
		RequestService:  requestService,
		ChatService:     chatService,
		ButtonService:   buttonService,
		SettingsService: settingsService,
		EmailService:    emailService,
	}
}

const tokenJanitorInterval = time.Hour

func runTokenJanitor(authService services.AuthService) {
	ticker := time.NewTicker(tokenJanitorInterval)
	for range ticker.C {
		if err := authService.CleanupExpiredTokens(); err != nil {
			logger.Warn("expired refresh token cleanup failed", "error", err)
		}
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(baseHandler, services.AuthService),
		ProfileHandler:  handlers.NewProfileHandler(baseHandler, services.ProfileService),
		LinkingHandler:  handlers.NewLinkingHandler(baseHandler, services.LinkingService),
		RequestHandler:  handlers.NewRequestHandler(baseHandler, services.RequestService),
		ChatHandler:     handlers.NewChatHandler(baseHandler, services.ChatService),
		ButtonHandler:   handlers.NewButtonHandler(baseHandler, services.ButtonService),
		SettingsHandler: handlers.NewSettingsHandler(baseHandler, services.SettingsService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}
