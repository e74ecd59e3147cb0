package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cryptobuddy/internal/app/di"
	"cryptobuddy/internal/app/router"
	"cryptobuddy/internal/app/shell"
	chathandler "cryptobuddy/internal/feature/chat/transport/handler"
	"cryptobuddy/internal/platform/logging"
)

const (
	defaultServerAddr = ":8080"
	shutdownTimeout   = 10 * time.Second
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cryptobuddy",
		Short: "Conversational crypto assistant",
		Long: `CryptoBuddy answers questions about cryptocurrencies by combining a local
knowledge base with live market data.

Run without a subcommand to start the interactive shell.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			slog.SetDefault(logging.NewLogger(logging.LoadConfig(), cmd.ErrOrStderr()))
			return nil
		},
		RunE: runShell,
	}
	root.AddCommand(newAskCmd(), newServeCmd())
	return root
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := di.NewApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			answer := app.Dispatcher.Process(cmd.Context(), strings.Join(args, " "))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
			return err
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /ask, /status and /healthz over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = envOr("SERVER_ADDR", defaultServerAddr)
			}
			return serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $SERVER_ADDR or :8080)")
	return cmd
}

func runShell(cmd *cobra.Command, args []string) error {
	app, err := di.NewApp(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "❌ Error initializing CryptoBuddy Pro: %v\n", err)
		return err
	}
	defer app.Close()

	return shell.New(app.Dispatcher, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
}

func serve(ctx context.Context, addr string) error {
	app, err := di.NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	gin.SetMode(gin.ReleaseMode)
	r := router.NewRouter(chathandler.NewChatHandler(app.Dispatcher), app.KnowledgeBase)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	slog.Info("HTTP server stopped")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
