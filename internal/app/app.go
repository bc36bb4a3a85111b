package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learngenix_backend/internal/config"
	"learngenix_backend/internal/controller"
	"learngenix_backend/internal/repository"
	"learngenix_backend/internal/service"
	"learngenix_backend/pkg/authprovider"
	"learngenix_backend/pkg/configwatcher"
	"learngenix_backend/pkg/database"
	"learngenix_backend/pkg/logger"
	"learngenix_backend/pkg/monitoring"
	"learngenix_backend/pkg/security"
	"learngenix_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config      *config.Config
	Router      *gin.Engine
	DB          *gorm.DB
	Redis       *redis.Client
	RateLimiter *security.RateLimiter

	tracer          *sdktrace.TracerProvider
	configCallbacks []configwatcher.Reloader
}

type repositories struct {
	user            *repository.UserRepository
	exercise        *repository.ExerciseRepository
	subject         *repository.SubjectRepository
	topic           *repository.TopicRepository
	achievement     *repository.AchievementRepository
	userAchievement *repository.UserAchievementRepository
	progress        *repository.ProgressRepository
	stats           *repository.StatsRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	exercise    *service.ExerciseService
	submission  *service.SubmissionService
	dashboard   *service.DashboardService
	subject     *service.SubjectService
	topic       *service.TopicService
	achievement *service.AchievementService
}

type controllers struct {
	health      *controller.HealthController
	auth        *controller.AuthController
	exercise    *controller.ExerciseController
	dashboard   *controller.DashboardController
	subject     *controller.SubjectController
	topic       *controller.TopicController
	achievement *controller.AchievementController
}

func (a *App) RegisterConfigCallback(callback configwatcher.Reloader) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:            repository.NewUserRepository(db),
		exercise:        repository.NewExerciseRepository(db),
		subject:         repository.NewSubjectRepository(db),
		topic:           repository.NewTopicRepository(db),
		achievement:     repository.NewAchievementRepository(db),
		userAchievement: repository.NewUserAchievementRepository(db),
		progress:        repository.NewProgressRepository(db),
		stats:           repository.NewStatsRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client, store authprovider.CredentialStore) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, store, s.storage, cfg)
	s.exercise = service.NewExerciseService(repos.exercise)
	s.submission = service.NewSubmissionService(
		db,
		repos.exercise,
		repos.progress,
		repos.stats,
		repos.achievement,
		repos.userAchievement,
		service.NewSubmissionGuard(rdb, cfg.Redis.SubmitTTL),
	)
	s.dashboard = service.NewDashboardService(repos.stats, repos.progress, repos.userAchievement, repos.exercise)
	s.subject = service.NewSubjectService(repos.subject)
	s.topic = service.NewTopicService(repos.topic)
	s.achievement = service.NewAchievementService(repos.achievement)

	return s
}

func initControllers(s *services, db *gorm.DB, cfg *config.Config) *controllers {
	return &controllers{
		health:      controller.NewHealthController(db, cfg.Server.ProjectName),
		auth:        controller.NewAuthController(s.auth),
		exercise:    controller.NewExerciseController(s.exercise, s.submission),
		dashboard:   controller.NewDashboardController(s.dashboard),
		subject:     controller.NewSubjectController(s.subject),
		topic:       controller.NewTopicController(s.topic),
		achievement: controller.NewAchievementController(s.achievement),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.RateLimiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 用已建立的连接组装路由；Redis 与凭证存储可由调用方替换（测试中使用）
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, store authprovider.CredentialStore) *App {
	gin.SetMode(cfg.Server.Mode)
	binding.EnableDecoderDisallowUnknownFields = true

	app := &App{
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		RateLimiter: security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()),
	}

	repos := initRepositories(db)
	services := initServices(repos, cfg, db, rdb, store)
	controllers := initControllers(services, db, cfg)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(logger.ApplyConfig)
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.RateLimiter.SetLimit(newCfg.RateLimit.MaxRequests, newCfg.RateLimit.Window())
	})

	return app
}

// NewApp 建立数据库、Redis、凭证存储与追踪，再组装应用
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Error("Failed to initialize database", zap.Error(err))
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Error("Failed to migrate database", zap.Error(err))
		return nil, err
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 没有 Redis 时提交防重退化为仅依赖数据库唯一索引
		logger.Log.Warn("Redis unavailable, submission guard disabled", zap.Error(err))
		rdb = nil
	}

	store, err := authprovider.New(cfg, db)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Credential store ready", zap.String("provider", cfg.Auth.Provider))

	app := New(cfg, db, rdb, store)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("learngenix-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	return app, nil
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.RateLimiter.Cleanup(ctx)

	if a.Config.File != "" {
		go func() {
			if err := configwatcher.Watch(ctx, a.Config.File, a.configCallbacks...); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.close()
			return err
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	// 等待进行中的请求结束（5 秒超时）
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.close()
	logger.Log.Info("Server exiting")
	return err
}

func (a *App) close() {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.DB); err != nil {
		logger.Log.Error("Failed to close database", zap.Error(err))
	}
	_ = logger.Log.Sync()
}
