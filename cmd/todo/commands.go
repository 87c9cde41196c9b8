package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tgienger/todo/internal/config"
	"github.com/tgienger/todo/internal/controller"
	"github.com/tgienger/todo/internal/db"
	"github.com/tgienger/todo/internal/gateway"
	"github.com/tgienger/todo/internal/server"
	"github.com/tgienger/todo/internal/ui"
)

var (
	configPath string
	serverURL  string
	listenAddr string
	dbPath     string

	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:           "todo",
		Short:         "A to-do list for the terminal",
		Long:          `todo shows your pending and completed tasks and talks to a task API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if serverURL != "" {
				loaded.ServerURL = serverURL
			}
			if listenAddr != "" {
				loaded.ListenAddr = listenAddr
			}
			if dbPath != "" {
				loaded.DBPath = dbPath
			}
			cfg = loaded
			return nil
		},
		RunE: runClient,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the task API server",
		Long:  `Serves the task API from the local SQLite database until interrupted.`,
		RunE:  runServe,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todo %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <config dir>/todo/config.yaml)")
	rootCmd.Flags().StringVar(&serverURL, "server", "", "task API base URL")
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "address to listen on")
	serveCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")

	// version needs no config
	versionCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }

	rootCmd.AddCommand(serveCmd, versionCmd)
}

// runClient runs the terminal client. The screen belongs to Bubble Tea, so logs go to a file.
func runClient(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := fileLogger(cfg.Level())
	if err != nil {
		return err
	}
	defer closeLog()

	gw := gateway.New(cfg.ServerURL,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		gateway.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := ui.NewApp(gw, controller.WithContext(ctx), controller.WithLogger(logger))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return exitErr(ctx, err)
}

// exitErr treats a program killed by a cancelled context as a clean exit
func exitErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("running application: %w", err)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	if cfg.Level() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := db.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer store.Close()
	logger.Info("Database ready", "path", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(store, server.WithLogger(logger)).Run(ctx, cfg.ListenAddr)
}

func fileLogger(level slog.Level) (*slog.Logger, func(), error) {
	dir, err := config.StateDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "todo.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
