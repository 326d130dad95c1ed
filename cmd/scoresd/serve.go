package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	api "github.com/mind-engage/clinical-scores/internal/api/http"
	"github.com/mind-engage/clinical-scores/internal/calculators"
	"github.com/mind-engage/clinical-scores/internal/config"
	"github.com/mind-engage/clinical-scores/internal/logging"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the calculator API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.HTTPAddr, _ = cmd.Flags().GetString("addr")
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			return runServer(cfg)
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address (overrides HTTP_ADDR)")
	cmd.Flags().String("log-level", "info", "Log level (overrides LOG_LEVEL)")
	cmd.Flags().String("env-file", ".env", "Optional dotenv file to load before reading the environment")
	return cmd
}

func runServer(cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	reg, err := calculators.NewRegistry()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(cfg, reg, api.RouterOptions{Version: version, Log: logger}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":        cfg.HTTPAddr,
			"mode":        cfg.Mode,
			"auth":        cfg.EnableAuth,
			"calculators": reg.Len(),
		}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
