package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"predict_earn_backend/internal/config"
	"predict_earn_backend/internal/controller"
	"predict_earn_backend/internal/middleware"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/service"
	"predict_earn_backend/pkg/database"
	"predict_earn_backend/pkg/logger"
	"predict_earn_backend/pkg/monitoring"
	"predict_earn_backend/pkg/secrets"
	"predict_earn_backend/pkg/security"
	"predict_earn_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user             *repository.UserRepository
	question         *repository.QuestionRepository
	checkin          *repository.CheckinRepository
	prediction       *repository.PredictionRepository
	pointTransaction *repository.PointTransactionRepository
	referral         *repository.ReferralRepository
	order            *repository.OrderRepository
}

type services struct {
	auth       *service.AuthService
	ledger     *service.LedgerService
	checkin    *service.CheckinService
	prediction *service.PredictionService
	referral   *service.ReferralService
	orderSync  *service.OrderSyncService
	user       *service.UserService
	cache      *service.PredictionCache
}

type controllers struct {
	auth       *controller.AuthController
	checkin    *controller.CheckinController
	prediction *controller.PredictionController
	referral   *controller.ReferralController
	user       *controller.UserController
	admin      *controller.AdminController
	webhook    *controller.WebhookController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口：刷新可热改的字段并通知各订阅方
func (a *App) ApplyConfig(updated *config.Config) {
	a.Config.CORS = updated.CORS
	a.Config.RateLimit = updated.RateLimit

	for _, callback := range a.configCallbacks {
		callback(updated)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:             repository.NewUserRepository(db),
		question:         repository.NewQuestionRepository(db),
		checkin:          repository.NewCheckinRepository(db),
		prediction:       repository.NewPredictionRepository(db),
		pointTransaction: repository.NewPointTransactionRepository(db),
		referral:         repository.NewReferralRepository(db),
		order:            repository.NewOrderRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	box, err := secrets.New(cfg.Crypto.AnswerKey)
	if err != nil {
		return nil, err
	}

	s := &services{}
	s.cache = service.NewPredictionCache(rdb, cfg.Cache.PredictionTTL)
	s.ledger = service.NewLedgerService(db, repos.pointTransaction)
	s.referral = service.NewReferralService(repos.referral, repos.user, s.ledger)
	s.checkin = service.NewCheckinService(
		repos.checkin,
		repos.question,
		repos.user,
		s.ledger,
		s.referral,
		cfg.Game.CheckinBasePoints,
		cfg.Game.MaxSkipsPerDay,
	)
	s.prediction = service.NewPredictionService(repos.prediction, repos.user, s.ledger, box, s.cache)
	s.orderSync = service.NewOrderSyncService(repos.order, repos.user)
	s.auth = service.NewAuthService(db, repos.user, s.referral, cfg)
	s.user = service.NewUserService(repos.user, repos.checkin, s.ledger)

	return s, nil
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		checkin:    controller.NewCheckinController(s.checkin),
		prediction: controller.NewPredictionController(s.prediction),
		referral:   controller.NewReferralController(s.referral),
		user:       controller.NewUserController(s.user, s.ledger),
		admin:      controller.NewAdminController(s.user, s.orderSync, repos.question),
		webhook:    controller.NewWebhookController(s.orderSync),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	corsPolicy := security.NewCORSPolicy(cfg.CORS.AllowedOrigins)
	rateLimit := security.NewRateLimitPolicy(cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)

	// 配置热更新直接作用到在线的中间件上
	a.RegisterConfigCallback(func(updated *config.Config) {
		corsPolicy.Update(updated.CORS.AllowedOrigins)
		rateLimit.Update(updated.RateLimit.MaxRequests,
			time.Duration(updated.RateLimit.WindowMinutes)*time.Minute)
	})

	router.Use(middleware.RequestID())
	router.Use(corsPolicy.Middleware())
	router.Use(security.Secure())
	router.Use(rateLimit.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, repos, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("predict-earn", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

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
