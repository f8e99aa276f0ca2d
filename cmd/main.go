package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	httpctx "github.com/scholarly/auth-server/internal/api/http/context"
	"github.com/scholarly/auth-server/internal/api/http/handler"
	"github.com/scholarly/auth-server/internal/api/http/middleware"
	"github.com/scholarly/auth-server/internal/api/http/router"
	"github.com/scholarly/auth-server/internal/config"
	"github.com/scholarly/auth-server/internal/logger"
	"github.com/scholarly/auth-server/internal/model"
	"github.com/scholarly/auth-server/internal/password"
	"github.com/scholarly/auth-server/internal/ratelimit"
	"github.com/scholarly/auth-server/internal/repository/postgres"
	redisrepo "github.com/scholarly/auth-server/internal/repository/redis"
	"github.com/scholarly/auth-server/internal/server"
	"github.com/scholarly/auth-server/internal/service"
	"github.com/scholarly/auth-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	// Missing .env is fine, the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
	}

	userRepo := postgres.NewUserRepository(db)

	var revocationStore model.RevocationStore
	var limiterStore ratelimit.Store
	var memoryStore *ratelimit.MemoryStore
	if redisClient != nil {
		revocationStore = redisrepo.NewRevocationStore(redisClient, cfg.Redis.KeyPrefix)
		limiterStore = ratelimit.NewRedisStore(redisClient, cfg.Redis.KeyPrefix, cfg.RateLimit.IdleTTL)
		logger.Info("using redis revocation and rate limit stores", "addr", cfg.Redis.Addr)
	} else {
		revocationStore = postgres.NewRevocationRepository(db)
		memoryStore = ratelimit.NewMemoryStore(cfg.RateLimit.IdleTTL)
		limiterStore = memoryStore
		logger.Info("using postgres revocation store and in-memory rate limit store")
	}

	tokenManager, err := token.NewJWT(token.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessExpiry:  cfg.JWT.AccessExpiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
		Algorithm:     cfg.JWT.Algorithm,
		Issuer:        cfg.JWT.Issuer,
		Audience:      cfg.JWT.Audience,
	})
	if err != nil {
		logger.Fatal("failed to create token manager", "error", err)
	}

	hasher := password.NewHasher(cfg.Bcrypt.Cost)
	tokenService := service.NewTokenService(tokenManager, revocationStore, cfg.Revocation.CheckTimeout, logger)
	authService := service.NewAuth(userRepo, hasher, tokenService, logger)

	limiter, err := ratelimit.NewLimiter(limiterStore, cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	if err != nil {
		logger.Fatal("failed to create rate limiter", "error", err)
	}

	ctxMgr := httpctx.NewManager()
	r := router.New(
		handler.NewAuth(authService, logger),
		middleware.NewAuthenticate(tokenService, ctxMgr, logger),
		middleware.NewRateLimit(limiter, logger),
		middleware.NewLogging(logger),
		db,
		logger,
	)

	httpServer := server.NewHTTPServer(r.Handler(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runMaintenance(ctx, cfg, logger, tokenService, memoryStore)
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// runMaintenance periodically reaps expired blacklist entries and, when
// buckets live in process memory, evicts idle ones.
func runMaintenance(
	ctx context.Context,
	cfg *config.Config,
	logger *logger.Logger,
	tokenService *service.TokenService,
	memoryStore *ratelimit.MemoryStore,
) {
	reapTicker := time.NewTicker(cfg.Revocation.ReapInterval)
	defer reapTicker.Stop()

	evictTicker := time.NewTicker(cfg.RateLimit.IdleTTL)
	defer evictTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-reapTicker.C:
			removed, err := tokenService.ReapExpired(ctx, time.Now())
			if err != nil {
				logger.Error("failed to reap expired revocations", "error", err)
				continue
			}
			logger.Info("reaped expired revocations", "removed", removed)
		case <-evictTicker.C:
			if memoryStore != nil {
				memoryStore.EvictIdle(time.Now())
			}
		}
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
