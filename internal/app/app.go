package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill_portal_backend/internal/config"
	"skill_portal_backend/internal/controller"
	"skill_portal_backend/internal/middleware"
	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/service"
	"skill_portal_backend/internal/util"
	"skill_portal_backend/pkg/configwatcher"
	"skill_portal_backend/pkg/database"
	"skill_portal_backend/pkg/logger"
	"skill_portal_backend/pkg/monitoring"
	"skill_portal_backend/pkg/security"
	"skill_portal_backend/pkg/storage"
	"skill_portal_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *gorm.DB
	Redis   *redis.Client
	Storage storage.Provider

	limiter         *middleware.RateLimiter
	rateStore       middleware.RateLimitStore
	origins         *security.OriginList
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	skill    *repository.SkillRepository
	question *repository.QuestionRepository
	quiz     *repository.QuizRepository
	report   *repository.ReportRepository
}

type services struct {
	auth     *service.AuthService
	user     *service.UserService
	skill    *service.SkillService
	question *service.QuestionService
	quiz     *service.QuizService
	report   *service.ReportService
	export   *service.ExportService
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	skill    *controller.SkillController
	question *controller.QuestionController
	quiz     *controller.QuizController
	report   *controller.ReportController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		skill:    repository.NewSkillRepository(db),
		question: repository.NewQuestionRepository(db),
		quiz:     repository.NewQuizRepository(db),
		report:   repository.NewReportRepository(db),
	}
}

func (a *App) initServices(repos *repositories, tokens *util.TokenCodec) *services {
	return &services{
		auth:     service.NewAuthService(repos.user, tokens),
		user:     service.NewUserService(repos.user),
		skill:    service.NewSkillService(repos.skill),
		question: service.NewQuestionService(repos.question, repos.skill),
		quiz:     service.NewQuizService(repos.quiz, repos.question, repos.skill),
		report:   service.NewReportService(repos.report),
		export:   service.NewExportService(repos.question, repos.skill, a.Storage),
	}
}

func (a *App) initControllers(s *services, cookies *util.CookieWriter) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth, cookies),
		user:     controller.NewUserController(s.user),
		skill:    controller.NewSkillController(s.skill),
		question: controller.NewQuestionController(s.question, s.export),
		quiz:     controller.NewQuizController(s.quiz, s.question),
		report:   controller.NewReportController(s.report),
		health:   controller.NewHealthController(a.DB),
	}
}

func (a *App) initRateLimiter() {
	cfg := a.Config.RateLimit
	if cfg.Store == "redis" && a.Redis != nil {
		a.rateStore = middleware.NewRedisRateStore(a.Redis)
	} else {
		if cfg.Store == "redis" {
			logger.Log.Warn("Redis rate limit store requested without redis client, falling back to memory")
		}
		a.rateStore = middleware.NewMemoryRateStore(time.Minute)
	}
	a.limiter = middleware.NewRateLimiter(a.rateStore, cfg.MaxRequests, util.ParseTTL(cfg.Window))
}

func (a *App) setupMiddlewares(router *gin.Engine) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(security.Secure())
	router.Use(security.CORS(a.origins))

	// 分布式追踪中间件
	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// applyConfig 配置热更新时调整可变部分
func (a *App) applyConfig(cfg *config.Config) {
	a.limiter.Update(cfg.RateLimit.MaxRequests, util.ParseTTL(cfg.RateLimit.Window))
	a.origins.Update(cfg.CORS.AllowedOrigins)
	logger.Log.Info("Runtime config applied", zap.Strings("cors", cfg.CORS.AllowedOrigins))
}

// New 组装路由，不打开任何外部连接。rdb 可为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, provider storage.Provider) *App {
	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Storage: provider,
		origins: security.NewOriginList(cfg.CORS.AllowedOrigins),
	}

	monitoring.Init()
	app.initRateLimiter()
	app.RegisterConfigCallback(app.applyConfig)

	tokens := util.NewTokenCodec(cfg.JWT)
	cookies := util.NewCookieWriter(cfg.Cookie, cfg.JWT)

	repos := app.initRepositories(db)
	services := app.initServices(repos, tokens)
	controllers := app.initControllers(services, cookies)

	router := gin.New()
	app.Router = router
	app.setupMiddlewares(router)
	app.registerRoutes(router, controllers, tokens)

	return app
}

// NewApp 按配置打开数据库、Redis、对象存储和追踪
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	if !cfg.IsRelease() {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}

	var rdb *redis.Client
	if cfg.RateLimit.Store == "redis" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
	}

	provider, err := storage.New(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	if mp, ok := provider.(*storage.MinioProvider); ok {
		if err := mp.EnsureBucket(context.Background()); err != nil {
			logger.Log.Warn("Failed to ensure minio bucket", zap.Error(err))
		}
	}

	app := New(cfg, db, rdb, provider)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("skill-portal", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracer = tp
	}

	return app, nil
}

func (a *App) watchConfig(ctx context.Context) {
	if a.Config.ConfigFile == "" {
		return
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, a.Config.ConfigFile, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

// Close 释放后台资源
func (a *App) Close() {
	if closer, ok := a.rateStore.(interface{ Close() }); ok {
		closer.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.watchConfig(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	// 等待在途请求完成（最多 5 秒）
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}
