package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-table-reservation/internal/app"
	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

func NewServerCmd() *cobra.Command {
	var runMigrations bool
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			if runMigrations {
				if err := migrate(db, cfg.DB.Driver); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rdb := config.NewRedisClient(ctx)
			if rdb != nil {
				defer rdb.Close()
			}
			qcfg := config.LoadQueueConfig()
			opts := app.Options{
				Redis:     rdb,
				Cache:     config.LoadCacheConfig(),
				RateLimit: config.LoadRateLimitConfig(),
			}
			if pub := queue.NewPublisher(qcfg); pub != nil {
				opts.Events = pub
			}

			e := app.New(cfg, db, opts)
			if rdb == nil {
				e.Logger.Warn("redis unavailable: table status cache and rate limiting disabled")
			}
			if cfg.EnforceAvailability {
				e.Logger.Info("booking: availability enforced inside the booking transaction")
			}
			if qcfg.Enabled {
				go func() {
					if err := queue.NewConsumer(qcfg).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						e.Logger.Errorf("reservation consumer stopped: %v", err)
					}
				}()
			}

			addr := ":" + cfg.Port
			e.Logger.Infof("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DB.Driver)
			errc := make(chan error, 1)
			go func() { errc <- e.Start(addr) }()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&runMigrations, "migrate", false, "apply database migrations before serving")
	return cmd
}

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrate(db, cfg.DB.Driver); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}
