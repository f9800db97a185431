package app

import (
	"concert_connect_backend/internal/config"
	"concert_connect_backend/internal/controller"
	"concert_connect_backend/internal/payment"
	"concert_connect_backend/internal/repository"
	"concert_connect_backend/internal/service"
	"concert_connect_backend/internal/ticketing"
	"concert_connect_backend/pkg/configwatcher"
	"concert_connect_backend/pkg/database"
	"concert_connect_backend/pkg/logger"
	"concert_connect_backend/pkg/monitoring"
	"concert_connect_backend/pkg/security"
	"concert_connect_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	event      *repository.EventRepository
	friendship *repository.FriendshipRepository
	post       *repository.PostRepository
	payment    *repository.PaymentRepository
}

type services struct {
	auth       *service.AuthService
	event      *service.EventService
	friendship *service.FriendshipService
	social     *service.SocialService
	payment    *service.PaymentService
	storage    *service.StorageService
}

type controllers struct {
	auth    *controller.AuthController
	event   *controller.EventController
	social  *controller.SocialController
	payment *controller.PaymentController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		event:      repository.NewEventRepository(db),
		friendship: repository.NewFriendshipRepository(db, rdb),
		post:       repository.NewPostRepository(db),
		payment:    repository.NewPaymentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.event = service.NewEventService(repos.event, repos.user, ticketing.NewDiscoveryClient(&cfg.Ticketmaster))
	s.friendship = service.NewFriendshipService(repos.friendship, repos.user)
	s.social = service.NewSocialService(repos.post, repos.event, s.friendship)
	s.payment = service.NewPaymentService(repos.payment, repos.event, payment.NewStripeClient(&cfg.Stripe), cfg)
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		event:   controller.NewEventController(s.event),
		social:  controller.NewSocialController(s.social, s.friendship, s.storage),
		payment: controller.NewPaymentController(s.payment),
		health:  controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式默认不自动迁移，除非显式传 -migrate
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
			log.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Log.Info("Database migration completed")
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
	services, err := app.initServices(repos, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
		log.Fatalf("Failed to initialize services: %v", err)
	}
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("concert-connect", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 热加载供应商密钥等可在线更新的配置
	go configwatcher.WatchConfig("configs/config.yaml", cfg, app.reloadConfig)

	return app
}

// reloadConfig 就地更新可热加载的字段。供应商客户端持有子配置指针，
// 改动立即生效；端口、数据库等需要重启的字段不动
func (a *App) reloadConfig(newCfg interface{}) {
	cfg, ok := newCfg.(*config.Config)
	if !ok {
		return
	}

	a.Config.Ticketmaster.APIKey = cfg.Ticketmaster.APIKey
	a.Config.Stripe.SecretKey = cfg.Stripe.SecretKey
	a.Config.Stripe.WebhookSecret = cfg.Stripe.WebhookSecret
	a.Config.JWT.Secret = cfg.JWT.Secret

	for _, callback := range a.configCallbacks {
		callback(a.Config)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

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

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
