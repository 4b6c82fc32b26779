package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"quizmaster_backend/internal/config"
	"quizmaster_backend/internal/controller"
	"quizmaster_backend/internal/repository"
	"quizmaster_backend/internal/service"
	"quizmaster_backend/internal/session"
	"quizmaster_backend/internal/util"
	"quizmaster_backend/pkg/database"
	"quizmaster_backend/pkg/logger"
	"quizmaster_backend/pkg/monitoring"
	"quizmaster_backend/pkg/security"
	"quizmaster_backend/pkg/tracing"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Sessions *session.Manager

	services        *services
	origins         *security.OriginSet
	tracer          *sdktrace.TracerProvider
	memoryStore     *session.MemoryStore
	configCallbacks []func(*config.Config)
	mu              sync.Mutex
	done            chan struct{}
}

type repositories struct {
	quiz     *repository.QuizRepository
	student  *repository.StudentRepository
	identity *repository.IdentityRepository
	settings *repository.SettingsRepository
}

type services struct {
	identity  *service.IdentityService
	auth      *service.AuthService
	storage   *service.StorageService
	settings  *service.SettingsService
	quiz      *service.QuizService
	student   *service.StudentService
	dashboard *service.DashboardService
}

type controllers struct {
	auth      *controller.AuthController
	quiz      *controller.QuizController
	student   *controller.StudentController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

// redisPinger 让 redis 客户端满足 controller.Pinger
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热加载后依次调用已注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

// Done 在服务器开始关闭时关闭
func (a *App) Done() <-chan struct{} {
	return a.done
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		quiz:     repository.NewQuizRepository(db),
		student:  repository.NewStudentRepository(db),
		identity: repository.NewIdentityRepository(db),
		settings: repository.NewSettingsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.identity = service.NewIdentityService(repos.identity)
	s.storage = service.NewStorageService(cfg)
	s.settings = service.NewSettingsService(repos.settings)
	s.auth = service.NewAuthService(repos.student, s.identity, a.Sessions, cfg)
	s.quiz = service.NewQuizService(repos.quiz, a.Sessions.Store(), s.settings, s.storage)
	s.student = service.NewStudentService(repos.student, s.identity)
	s.dashboard = service.NewDashboardService(repos.quiz, repos.student)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	components := map[string]controller.Pinger{}
	if sqlDB, err := a.DB.DB(); err == nil {
		components["database"] = sqlDB
	}
	if a.Redis != nil {
		components["redis"] = redisPinger{client: a.Redis}
	}

	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		quiz:      controller.NewQuizController(s.quiz),
		student:   controller.NewStudentController(s.student),
		dashboard: controller.NewDashboardController(s.dashboard, s.settings),
		health:    controller.NewHealthController(components),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) initSessions(cfg *config.Config) {
	var store session.Store
	if a.Redis != nil {
		store = session.NewRedisStore(a.Redis)
	} else {
		logger.Log.Warn("Redis disabled, sessions are kept in process memory")
		a.memoryStore = session.NewMemoryStore()
		store = a.memoryStore
	}
	a.Sessions = session.NewManager(store, cfg.JWT.ExpireTime)
}

func (a *App) startBackgroundTasks() {
	if a.memoryStore == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-a.done:
				return
			case <-ticker.C:
				if n := a.memoryStore.Sweep(); n > 0 {
					logger.Log.Debug("Expired sessions removed", zap.Int("count", n))
				}
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// release 模式下默认不迁移，需显式指定 -migrate
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		origins: security.NewOriginSet(cfg.CORS.AllowedOrigins),
		done:    make(chan struct{}),
	}

	if cfg.MigrateOnly {
		return app
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		app.Redis = rdb
	}

	app.initSessions(cfg)

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services)

	// 监控初始化
	monitoring.Init()
	util.RegisterValidators()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("quizmaster", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
		app.origins.Replace(newCfg.CORS.AllowedOrigins)
	})

	app.startBackgroundTasks()

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
	close(a.done)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	log.Println("Server exiting")
}
