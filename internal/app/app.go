package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ssRohan-32/link-organizer/internal/auth"
	"github.com/ssRohan-32/link-organizer/internal/config"
	"github.com/ssRohan-32/link-organizer/internal/domain"
	"github.com/ssRohan-32/link-organizer/internal/executor"
	"github.com/ssRohan-32/link-organizer/internal/httpserver"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
	"github.com/ssRohan-32/link-organizer/internal/localstore"
	"github.com/ssRohan-32/link-organizer/internal/logger"
	"github.com/ssRohan-32/link-organizer/internal/redis"
	"github.com/ssRohan-32/link-organizer/internal/session"
	"github.com/ssRohan-32/link-organizer/internal/sources/seedfile"
	redisstore "github.com/ssRohan-32/link-organizer/internal/store/redis"
	"github.com/ssRohan-32/link-organizer/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sessions    *session.Registry
	reaper      *session.Reaper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Connect to redis unless running in local single-user mode
	var redisClient *goredis.Client
	var remote *redisstore.Store
	var local *localstore.Store
	var authSvc *auth.Service

	if cfg.LocalMode() {
		loggerClient.Info("no redis configured, running in local single-user mode",
			logger.String("data_file", cfg.DataFile))
		local = localstore.New(cfg.DataFile)
	} else {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")

		redisClient = client
		remote = redisstore.NewStore(client)
		authSvc = auth.NewService(client, []byte(cfg.AuthSecret), cfg.TokenTTL)
	}

	// Load the starter-content seed if configured
	var seed []*domain.Course
	if cfg.SeedFile != "" {
		loaded, err := loadSeed(cfg.SeedFile)
		if err != nil {
			loggerClient.Warn("failed to load seed file, new users start empty",
				logger.String("file", cfg.SeedFile),
				logger.Error(err))
		} else {
			loggerClient.Info("seed file loaded",
				logger.String("file", cfg.SeedFile),
				logger.Int("courses", len(loaded)))
			seed = loaded
		}
	}

	sessions := session.NewRegistry(session.Config{
		Remote:      remoteOrNil(remote),
		Local:       local,
		Logger:      loggerClient,
		UndoWindow:  cfg.UndoWindow,
		SyncTimeout: cfg.SyncTimeout,
		Seed:        seed,
	})

	reaper := session.NewReaper(sessions, loggerClient, cfg.ReaperInterval, cfg.SessionTTL)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		Sessions:     sessions,
		Auth:         authSvc,
		LocalMode:    cfg.LocalMode(),
		DataFile:     cfg.DataFile,
		RedisClient:  redisClient,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		sessions:    sessions,
		reaper:      reaper,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting LinkOrganizer v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("LinkOrganizer %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start session reaper
	a.reaper.Start(ctx)
	a.logger.Info("session reaper started",
		logger.Duration("interval", a.cfg.ReaperInterval),
		logger.Duration("ttl", a.cfg.SessionTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reaper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Let in-flight background syncs land before closing storage
	a.sessions.Wait()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ LinkOrganizer stopped cleanly")
	return nil
}

func loadSeed(path string) ([]*domain.Course, error) {
	cfg, err := seedfile.NewLoader(path).Load()
	if err != nil {
		return nil, err
	}
	return seedfile.NewMapper().MapCourses(cfg)
}

// remoteOrNil avoids storing a typed nil in the Remote interface field.
func remoteOrNil(s *redisstore.Store) executor.Remote {
	if s == nil {
		return nil
	}
	return s
}
