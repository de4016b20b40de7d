package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"github.com/terraincognita07/ritual/internal/api"
	"github.com/terraincognita07/ritual/internal/cli"
	"github.com/terraincognita07/ritual/internal/config"
	"github.com/terraincognita07/ritual/internal/db"
	"github.com/terraincognita07/ritual/internal/jobs"
	"github.com/terraincognita07/ritual/internal/services"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config init failed")
	}
	log.SetLevel(cfg.Level())
	time.Local = cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, os.Args[1:])
	stop()
	if err != nil {
		log.WithError(err).Fatal("ritual exited")
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return serve(ctx, cfg)
	}

	switch args[0] {
	case "serve":
		return serve(ctx, cfg)
	case "reset-password":
		options, err := cli.ParseResetPasswordArgs(args[1:], os.Stderr)
		if err != nil {
			return err
		}
		return cli.RunResetPasswordCommand(ctx, cfg.DBSettings(), options)
	default:
		return fmt.Errorf("unknown command %q (expected serve or reset-password)", args[0])
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	database, err := db.Open(cfg.DBSettings())
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.WithError(err).Warn("database close failed")
		}
	}()

	handler, err := api.NewHandler(database, handlerOptions(cfg))
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newApp(handler)

	group, groupCtx := errgroup.WithContext(ctx)
	if cfg.RemindersEnabled() {
		repositories := db.NewRepositories(database)
		reminders := services.NewReminderService(repositories.Streaks, repositories.Users, nil, cfg.Location())
		scheduler := jobs.NewScheduler(reminders, cfg.ReminderSchedule, cfg.Location())
		if err := scheduler.Start(groupCtx); err != nil {
			return fmt.Errorf("scheduler init failed: %w", err)
		}
		defer scheduler.Stop()
	} else {
		log.Info("streak reminders disabled")
	}

	group.Go(func() error {
		log.WithFields(log.Fields{
			"port":   cfg.Port,
			"driver": cfg.DBDriver,
			"tz":     cfg.Location().String(),
		}).Info("ritual listening")
		return app.Listen(":" + cfg.Port)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Info("server stopped")
		return nil
	})
	return group.Wait()
}

func handlerOptions(cfg *config.Config) api.Options {
	return api.Options{
		SecretKey:          cfg.SecretKey,
		Location:           cfg.Location(),
		AccessTokenTTL:     cfg.AccessTokenTTL,
		RefreshTokenTTL:    cfg.RefreshTokenTTL,
		DuplicatePolicy:    services.DuplicateActivityPolicy(cfg.ActivityDuplicatePolicy),
		LoginAttemptLimit:  cfg.LoginAttemptLimit,
		LoginAttemptWindow: cfg.LoginAttemptWindow,
	}
}

func newApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Ritual",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}
