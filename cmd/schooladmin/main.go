package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/schooladmin/schooladmin/internal/app"
	"github.com/schooladmin/schooladmin/internal/auth"
	"github.com/schooladmin/schooladmin/internal/classrooms"
	"github.com/schooladmin/schooladmin/internal/observability"
	"github.com/schooladmin/schooladmin/internal/platform/cache"
	"github.com/schooladmin/schooladmin/internal/platform/db"
	"github.com/schooladmin/schooladmin/internal/platform/ratelimit"
	"github.com/schooladmin/schooladmin/internal/rbac"
	"github.com/schooladmin/schooladmin/internal/schools"
	"github.com/schooladmin/schooladmin/internal/students"
	"github.com/schooladmin/schooladmin/internal/token"
	"github.com/schooladmin/schooladmin/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, dbpool); err != nil {
			logger.Error("apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.RateLimitBackend == app.RateLimitRedis {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	issuer, err := token.NewIssuer(token.Config{
		LongSecret:  []byte(cfg.LongTokenSecret),
		ShortSecret: []byte(cfg.ShortTokenSecret),
		LongTTL:     cfg.LongTokenTTL,
		ShortTTL:    cfg.ShortTokenTTL,
	})
	if err != nil {
		logger.Error("token issuer", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	guard := rbac.Middleware{
		Verifier:   issuer,
		Logger:     logger,
		RoleSource: cfg.AuthRoleSource,
		Recorder:   metrics,
	}
	limits := ratelimit.Factory{
		Requests: cfg.RateLimitRequests,
		Window:   cfg.RateLimitWindow,
		Redis:    redisClient,
	}

	usersService := users.NewService(users.NewRepository(dbpool))
	if cfg.BootstrapEnabled() {
		created, err := usersService.EnsureSuperAdmin(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		if err != nil {
			logger.Error("bootstrap superadmin", slog.Any("error", err))
			os.Exit(1)
		}
		if created {
			logger.Info("bootstrap superadmin created", slog.String("username", cfg.BootstrapAdminUsername))
		}
	}

	schoolsService := schools.NewService(schools.NewRepository(dbpool))
	classroomsService := classrooms.NewService(classrooms.NewRepository(dbpool), schoolsService)
	studentsService := students.NewService(students.NewRepository(dbpool), schoolsService, classroomsService)
	authService := auth.NewService(usersService, issuer)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      auth.NewHandler(logger, authService, limits.New("login"), limits.New("refresh")),
		UsersHandler:     users.NewHandler(logger, usersService, guard),
		SchoolsHandler:   schools.NewHandler(logger, schoolsService, guard, limits.New("school")),
		ClassroomHandler: classrooms.NewHandler(logger, classroomsService, guard, limits.New("classroom")),
		StudentsHandler:  students.NewHandler(logger, studentsService, guard),
		Metrics:          metrics,
		Health: func(r *http.Request) error {
			return dbpool.Ping(r.Context())
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("role_source", cfg.AuthRoleSource))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
