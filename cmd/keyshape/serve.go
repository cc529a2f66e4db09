package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/keyshape/internal/logging"
	"github.com/aretw0/keyshape/internal/registry"
	"github.com/aretw0/keyshape/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless validation server",
	Long:  `Starts the keyshape HTTP server, exposing validation and the schema registry as a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		levelFlag, _ := cmd.Flags().GetString("log-level")

		level, err := logging.ParseLevel(levelFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "keyshape: %v\n", err)
			os.Exit(2)
		}
		logger := logging.New(level)

		var store registry.Store
		if redisAddr != "" {
			redisStore := registry.NewRedisStore(redisAddr, "", 0)
			defer redisStore.Close()
			store = redisStore
			logger.Info("schema registry backed by redis", "addr", redisAddr)
		} else {
			store = registry.NewMemoryStore()
			logger.Info("schema registry kept in memory")
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.New(store, server.WithLogger(logger)).Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting keyshape server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			logger.Error("server error", "error", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "error", err)
				}
			}
			logger.Info("keyshape server stopped")
		}
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for a shared schema registry (empty = in-memory)")
	rootCmd.AddCommand(serveCmd)
}
