// Command dogbot runs the dog catalog API, the conversation webhook that
// fronts it, or an interactive terminal chat against a running catalog.
//
//	dogbot serve   catalog HTTP API
//	dogbot bot     conversation webhook (POST /updates)
//	dogbot chat    conversation loop on stdin/stdout
//
// @title       Dog Catalog API
// @version     1.0
// @description Dog and post catalog with a read-through TTL cache.
// @BasePath    /
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-dog-catalog/internal/config"
	"github.com/tbourn/go-dog-catalog/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var cfg config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	root := &cobra.Command{
		Use:           "dogbot",
		Short:         "Dog catalog API and conversation bot",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotEnv(); err != nil {
				return err
			}
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			sysutil.SetupLogging(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())
			return nil
		},
	}

	root.AddCommand(serveCmd(), botCmd(), chatCmd())
	root.SetContext(ctx)

	err := root.Execute()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "dogbot:", err)
		os.Exit(1)
	}
}

// loadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}
