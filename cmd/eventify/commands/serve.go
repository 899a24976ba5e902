package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sharath018/eventify-backend/internal/activity"
	"github.com/sharath018/eventify-backend/internal/notification"
	"github.com/sharath018/eventify-backend/internal/seed"
	"github.com/sharath018/eventify-backend/internal/validation"
	"github.com/sharath018/eventify-backend/routes"
	"github.com/sharath018/eventify-backend/utils"
	"github.com/spf13/cobra"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the EventiFy HTTP API.

The server will:
- Load configuration from the environment
- Connect to the database and run migrations
- Seed demo data into an empty database (SEED_ON_STARTUP)
- Connect to Redis and Kafka when configured
- Shut down gracefully on SIGINT/SIGTERM

Examples:
  eventify serve
  eventify serve --port 9000 --log-format console`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), flags, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default: PORT or 8000)")
	return cmd
}

func runServer(parent context.Context, flags *globalFlags, port string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cfg, db, err := openDatabase(ctx, flags)
	if err != nil {
		return err
	}
	defer closeDatabase(ctx, db)
	logger := zerolog.Ctx(ctx)

	if port != "" {
		cfg.Port = port
	}
	if err := validation.Register(); err != nil {
		return err
	}

	if cfg.SeedOnStartup {
		if _, err := seed.Run(ctx, db, time.Now()); err != nil {
			logger.Error().Err(err).Msg("seeding failed")
		}
	}

	rdb, err := utils.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	notifSvc := notification.NewService(notification.NewRepository(db), rdb)

	var publisher activity.Publisher
	if cfg.KafkaEnabled() {
		kp := activity.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp

		reader := activity.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
		defer reader.Close()
		go activity.ConsumeWithRetry(ctx, reader, notifSvc.HandleActivity, time.Second, time.Minute)
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("activities routed through kafka")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := routes.NewRouter(routes.Deps{
		Config:        cfg,
		DB:            db,
		Redis:         rdb,
		Notifications: notifSvc,
		Publisher:     publisher,
	})
	if err != nil {
		return err
	}

	// No WriteTimeout: notification streams stay open.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Str("env", cfg.Environment).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
