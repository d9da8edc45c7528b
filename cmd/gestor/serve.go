package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dracory/gestor"
	"github.com/dracory/gestor/shared/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	sessionSweepEvery = 10 * time.Minute
	sessionMaxIdle    = time.Hour
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		base string
		safe bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.HTTPPort = port
			}
			if cmd.Flags().Changed("base") {
				cfg.BasePath = base
			}
			if cmd.Flags().Changed("safe") {
				cfg.SafeModeDefault = safe
			}

			d, err := newDeps(cfg, types.Config.ValidateServer)
			if err != nil {
				return err
			}
			defer d.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, d)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP port to listen on")
	cmd.Flags().StringVar(&base, "base", "/", "Base path to mount the handler under (e.g. /gestor)")
	cmd.Flags().BoolVar(&safe, "safe", true, "Require confirmation before deleting a row")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled.
func serve(ctx context.Context, d *deps) error {
	app := gestor.New(d.cfg, d.service, d.log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", d.cfg.HTTPPort),
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(sessionSweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := app.Sessions().Sweep(sessionMaxIdle); n > 0 {
					d.log.WithField("sessions", n).Debug("idle sessions removed")
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		d.log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"base":    d.cfg.BasePath,
			"backend": d.cfg.Backend,
		}).Info("gestor listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	d.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
