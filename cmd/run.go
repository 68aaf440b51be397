package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"

	"github.com/peershare/peershare/api"
	"github.com/peershare/peershare/config"
	"github.com/peershare/peershare/internal/cache"
	"github.com/peershare/peershare/internal/clock"
	"github.com/peershare/peershare/internal/ipfs"
	"github.com/peershare/peershare/internal/logging"
	"github.com/peershare/peershare/internal/token"
	"github.com/peershare/peershare/pkg/cron"
	"github.com/peershare/peershare/pkg/services"
	"github.com/peershare/peershare/pkg/store"
)

func NewRun() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start PeerShare server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cnf, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if err := cnf.Validate(); err != nil {
				return err
			}
			applyFlagOverrides(cmd.Flags(), cnf)
			runApplication(cmd.Context(), cnf)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.Flags().Int("port", 0, "override server port")
	return cmd
}

func applyFlagOverrides(fs *pflag.FlagSet, cnf *config.Config) {
	if port, err := fs.GetInt("port"); err == nil && port > 0 {
		cnf.Server.Port = port
	}
}

func runApplication(ctx context.Context, cnf *config.Config) {
	lvl, err := zapcore.ParseLevel(cnf.Log.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	logging.SetConfig(&logging.Config{
		Level:    lvl,
		FilePath: cnf.Log.File,
	})

	lg := logging.DefaultLogger().Sugar()
	defer lg.Sync()

	if err := os.MkdirAll(filepath.Dir(cnf.Store.Path), 0o755); err != nil {
		lg.Fatalw("failed to create store directory", "err", err)
	}
	db, err := store.Open(cnf.Store.Path)
	if err != nil {
		lg.Fatalw("failed to open store", "err", err)
	}
	defer db.Close()

	clk := clock.System()

	codec, err := token.NewCodec(cnf.JWT.Secret, clk)
	if err != nil {
		lg.Fatalw("failed to initialize token codec", "err", err)
	}

	cacher := cache.New(ctx, &cache.Config{
		MaxSize:   cnf.Cache.MaxSize,
		RedisAddr: cnf.Cache.RedisAddr,
		RedisPass: cnf.Cache.RedisPass,
	})

	ipfsClient := ipfs.NewClient(cnf.IPFS.Endpoint, cnf.IPFS.Timeout)

	apiSrv := services.NewApiService(db, cnf, cacher, codec, ipfsClient, clk)

	reaper, err := cron.Start(&cnf.Reaper, cron.NewReaper(db, clk, lg))
	if err != nil {
		lg.Fatalw("failed to schedule grant reaper", "err", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cnf.Server.Port),
		Handler:           api.New(apiSrv, cnf, lg).Router(),
		ReadTimeout:       cnf.Server.ReadTimeout,
		WriteTimeout:      cnf.Server.WriteTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		lg.Infof("Server started at http://localhost:%d", cnf.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Errorw("failed to start server", "err", err)
		}
	}()

	<-ctx.Done()

	lg.Info("Shutting down server...")

	if reaper != nil {
		reaper.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cnf.Server.GracefulShutdown)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Errorw("server shutdown failed", "err", err)
	}

	lg.Info("Server stopped")
}
