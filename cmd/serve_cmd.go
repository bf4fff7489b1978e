package cmd

import (
	"context"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chapterhq/lodge/internal/api"
	"github.com/chapterhq/lodge/internal/conf"
	"github.com/chapterhq/lodge/internal/reloader"
	"github.com/chapterhq/lodge/internal/storage"
	"github.com/chapterhq/lodge/internal/utilities"
)

var serveCmd = cobra.Command{
	Use:  "serve",
	Long: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		serve(cmd.Context())
	},
}

func serve(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config := loadGlobalConfig(ctx)

	db, err := storage.Dial(config)
	if err != nil {
		logrus.Fatalf("error opening database: %+v", err)
	}
	defer db.Close()

	a := api.NewAPIWithVersion(ctx, config, db, utilities.Version)
	ah := reloader.NewAtomicHandler(a)

	// live config reloading needs a config file to watch
	if configFile != "" {
		rl := reloader.NewReloader(configFile)
		go func() {
			err := rl.Watch(ctx, func(cfg *conf.GlobalConfiguration) {
				logrus.Info("config change detected, swapping the API handler")
				ah.Store(api.NewAPIWithVersion(ctx, cfg, db, utilities.Version))
			})
			if err != nil && ctx.Err() == nil {
				logrus.WithError(err).Error("config reloader stopped")
			}
		}()
	}

	addr := net.JoinHostPort(config.API.Host, config.API.Port)
	logrus.Infof("Lodge API started on: %s", addr)

	api.Serve(ctx, addr, ah)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Minute)
	defer shutdownCancel()
	api.WaitForCleanup(shutdownCtx)
}
