package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/argvision/argvision-backend/api"
	"github.com/argvision/argvision-backend/api/routes"
	"github.com/argvision/argvision-backend/internal/discussions"
	"github.com/argvision/argvision-backend/internal/games"
	"github.com/argvision/argvision-backend/internal/matches"
	"github.com/argvision/argvision-backend/internal/memberships"
	"github.com/argvision/argvision-backend/internal/notifications"
	"github.com/argvision/argvision-backend/internal/rankings"
	"github.com/argvision/argvision-backend/internal/realtime"
	"github.com/argvision/argvision-backend/internal/teams"
	"github.com/argvision/argvision-backend/internal/users"
	"github.com/argvision/argvision-backend/pkg/config"
	"github.com/argvision/argvision-backend/pkg/db"
	"github.com/argvision/argvision-backend/pkg/instance"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/metrics"
	"github.com/argvision/argvision-backend/pkg/migrate"
	"github.com/argvision/argvision-backend/pkg/outbox"
	"github.com/argvision/argvision-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	bootCtx := context.Background()

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(bootCtx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(bootCtx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	m := metrics.New(prometheus.DefaultRegisterer)
	gormDB := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Repo:      notifications.NewRepository(gormDB),
		Publisher: redisClient,
		Channel:   redisClient.NotificationsChannel(cfg.Notifications.Channel),
		Config:    cfg.Notifications,
		Logger:    logg,
		Metrics:   m,
	})
	if err != nil {
		return err
	}
	dispatcher.Start()
	defer dispatcher.Close()

	rankingService, err := rankings.NewService(rankings.NewRepository(gormDB))
	if err != nil {
		return err
	}

	membershipRepo := memberships.NewRepository(gormDB)
	membershipService, err := memberships.NewService(memberships.ServiceParams{
		Repo:     membershipRepo,
		Tx:       dbClient,
		Outbox:   outboxService,
		Rankings: rankingService,
		Notifier: dispatcher,
		Logger:   logg,
		Metrics:  m,
	})
	if err != nil {
		return err
	}

	matchService, err := matches.NewService(matches.ServiceParams{
		Repo:        matches.NewRepository(gormDB),
		Roster:      membershipRepo,
		Memberships: membershipService,
		Rankings:    rankingService,
		Tx:          dbClient,
		Outbox:      outboxService,
		Notifier:    dispatcher,
		Logger:      logg,
		Metrics:     m,
	})
	if err != nil {
		return err
	}

	teamService, err := teams.NewService(teams.ServiceParams{
		Repo:     teams.NewRepository(gormDB),
		Tx:       dbClient,
		Outbox:   outboxService,
		Rankings: rankingService,
		Notifier: dispatcher,
		Logger:   logg,
		Metrics:  m,
	})
	if err != nil {
		return err
	}

	discussionService, err := discussions.NewService(discussions.ServiceParams{
		Repo:    discussions.NewRepository(gormDB),
		Tx:      dbClient,
		Outbox:  outboxService,
		Limiter: redisClient,
		Config:  cfg.Discussions,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	notificationService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		return err
	}
	userService, err := users.NewService(users.NewRepository(gormDB))
	if err != nil {
		return err
	}
	gameService, err := games.NewService(games.NewRepository(gormDB))
	if err != nil {
		return err
	}

	hub := realtime.NewHub(logg, m)
	defer hub.Close()
	feed, err := realtime.NewFeed(hub, redisClient, redisClient.NotificationsChannel(cfg.Notifications.Channel), logg)
	if err != nil {
		return err
	}
	wsHandler := realtime.NewHandler(realtime.HandlerParams{
		Hub: hub,
		Rooms: realtime.RoomAuthorizer{
			Matches:     matchService,
			Discussions: discussionService,
			Teams:       teamService,
		},
		JWT:      cfg.JWT,
		Realtime: cfg.Realtime,
		Logger:   logg,
	})

	server := api.NewServer(cfg, routes.NewRouter(routes.Params{
		Config:        cfg,
		Logger:        logg,
		Metrics:       m,
		Gatherer:      prometheus.DefaultGatherer,
		DB:            dbClient,
		Redis:         redisClient,
		Matches:       matchService,
		Memberships:   membershipService,
		Rankings:      rankingService,
		Games:         gameService,
		Users:         userService,
		Teams:         teamService,
		Discussions:   discussionService,
		Notifications: notificationService,
		Realtime:      wsHandler,
	}))

	ctx, stop := signal.NotifyContext(bootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return feed.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
