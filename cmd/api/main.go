package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"users-api/cmd/api/app"
	"users-api/cmd/api/di"
	"users-api/cmd/api/infrastructure"
	"users-api/cmd/api/server"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "users-api",
		Short:         "HTTP API for managing users",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(),
		"directory containing app.env (env: CONFIG_PATH)")

	root.AddCommand(&cobra.Command{
		Use:   "init-db",
		Short: "Verify storage connectivity and create the users table if absent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initDB(cmd.Context(), configPath)
		},
	})

	return root
}

func serve(ctx context.Context, configPath string) error {
	cfg, l, err := app.Bootstrap(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	ctx, stop := server.WithSignal(ctx)
	defer stop()

	a, err := app.New(ctx, cfg, l)
	if err != nil {
		l.Error("failed to start application", zap.Error(err))
		_ = l.Sync()
		return err
	}

	return a.Run(ctx)
}

func initDB(ctx context.Context, configPath string) error {
	cfg, l, err := app.Bootstrap(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer func() { _ = l.Sync() }()

	if err := cfg.Validate(); err != nil {
		l.Error("invalid configuration", zap.Error(err))
		return err
	}

	db, err := di.OpenDatabase(ctx, cfg, l)
	if err != nil {
		l.Error("database initialization failed", zap.Error(err))
		return err
	}

	l.Info("database ready")
	return infrastructure.CloseDatabase(db)
}

func defaultConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}
