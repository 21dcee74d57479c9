package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shiftgate/shiftgate/internal/config"
	"github.com/shiftgate/shiftgate/internal/server"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	config string
	port   int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the orchestrator server",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := config.Load(serveFlags.config)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
		if cmd.Flags().Changed("port") {
			app.Port = serveFlags.port
		}
		if err := os.MkdirAll(app.DataDir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("create data dir")
		}

		cfg := &server.Config{App: app, Logger: log.Logger}
		srv := server.New(cfg)
		chSignal := make(chan os.Signal, 1)
		signal.Notify(chSignal, os.Interrupt, syscall.SIGTERM)

		wg := &sync.WaitGroup{}
		wg.Go(func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				cfg.Logger.Fatal().Err(err).Msg("server error")
			}
		})

		sig := <-chSignal
		cfg.Logger.Info().Str("signal", sig.String()).Msg("shutting down server...")
		if err := srv.Stop(context.Background()); err != nil {
			cfg.Logger.Error().Err(err).Msg("error during server shutdown")
		}

		wg.Wait()
		cfg.Logger.Info().Msg("server stopped")
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.config, "config", "c", "", "Path to config file")
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 8080, "Port to listen on")
}
