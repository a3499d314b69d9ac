package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sandwich-shop-api/handlers"
	"sandwich-shop-api/middleware"
	"sandwich-shop-api/routes"
	"sandwich-shop-api/services"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		gin.SetMode(cfg.GinMode)

		auth := middleware.NewAuth(cfg.JWTSecret, cfg.TokenTTL)
		h := handlers.New(services.New(db, log), auth, log)
		srv := &http.Server{
			Addr:    cfg.Addr(),
			Handler: routes.NewRouter(h, auth, log),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.WithField("addr", srv.Addr).Info("server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			log.WithError(err).Error("server stopped with error")
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		log.Info("server stopped")
		return nil
	},
}
