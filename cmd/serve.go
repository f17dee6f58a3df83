package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"appointly/config"
	"appointly/cron"
	"appointly/database"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var inMemory bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the escalation job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(inMemory)
		},
	}
	cmd.Flags().BoolVar(&inMemory, "memory", false, "use the in-memory store instead of MongoDB")
	cmd.Flags().String("port", "", "overrides APP_PORT")
	_ = viper.BindPFlag("APP_PORT", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(inMemory bool) error {
	rt, err := bootstrap(inMemory, true)
	if err != nil {
		return err
	}
	defer rt.close()
	logger := rt.logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !inMemory {
		if err := rt.app.Store.EnsureIndexes(ctx); err != nil {
			return err
		}
		redisClients := []*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}
		utils.StartHealthMonitor(ctx, redisClients, database.MongoClient)
	}

	job := &cron.EscalationJob{
		Sweeper: rt.app.Escalator,
		Lease: &cron.RedisLease{
			Client: utils.GetCacheClient(),
			Key:    utils.EscalationLeaseKey,
			TTL:    config.AppConfig.EscalationLease,
		},
		Logger:  logger.Named("escalation"),
		Timeout: time.Minute,
	}
	scheduler, err := job.Start(ctx, config.AppConfig.EscalationSchedule)
	if err != nil {
		return err
	}
	defer func() { <-scheduler.Stop().Done() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: rt.app.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
