package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talent_nest_backend/internal/config"
	"talent_nest_backend/internal/controller"
	"talent_nest_backend/internal/repository"
	"talent_nest_backend/internal/service"
	"talent_nest_backend/pkg/database"
	"talent_nest_backend/pkg/logger"
	"talent_nest_backend/pkg/monitoring"
	"talent_nest_backend/pkg/security"
	"talent_nest_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user         *repository.UserRepository
	relationship *repository.RelationshipRepository
	document     *repository.DocumentRepository
	message      *repository.MessageRepository
}

type services struct {
	auth         *service.AuthService
	verification *service.VerificationService
	user         *service.UserService
	storage      *service.StorageService
	relationship *service.RelationshipService
	relQuery     *service.RelationshipQueryService
	document     *service.DocumentService
	message      *service.MessageService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	relationship *controller.RelationshipController
	network      *controller.NetworkController
	document     *controller.DocumentController
	message      *controller.MessageController
	health       *controller.HealthController
}

// ReloadConfig 热加载配置文件，只接管可以安全在运行中替换的部分
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config.JWT = cfg.JWT
	a.Config.Storage = cfg.Storage
	logger.Log.Info("Config reloaded", zap.String("mode", cfg.Server.Mode))
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		relationship: repository.NewRelationshipRepository(db, rdb),
		document:     repository.NewDocumentRepository(db),
		message:      repository.NewMessageRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.verification = service.NewVerificationService(rdb, repos.user)
	s.user = service.NewUserService(repos.user)
	s.relationship = service.NewRelationshipService(repos.relationship, repos.user)
	s.relQuery = service.NewRelationshipQueryService(repos.relationship, repos.user)
	s.document = service.NewDocumentService(repos.document, s.storage, s.relQuery)
	s.message = service.NewMessageService(repos.message, s.relQuery)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.verification),
		user:         controller.NewUserController(s.user, s.storage),
		relationship: controller.NewRelationshipController(s.relationship),
		network:      controller.NewNetworkController(s.relQuery),
		document:     controller.NewDocumentController(s.document),
		message:      controller.NewMessageController(s.message),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute, "/api/health", "/metrics"))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		logger.Log.Info("Migration completed, exiting (migrate-only mode)")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("talent-nest", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
