package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-dog-catalog/internal/bot"
	httpapi "github.com/tbourn/go-dog-catalog/internal/http"
	"github.com/tbourn/go-dog-catalog/internal/observability"
)

func botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Start the conversation webhook",
		Long:  "Serves POST /updates. Each update is routed through the conversation engine, which calls the catalog at BOT_API_URL.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			otelCfg := cfg.OTEL
			otelCfg.ServiceName += "-bot"
			shutdownOTel, err := observability.SetupOTel(ctx, otelCfg, version)
			if err != nil {
				return fmt.Errorf("bot: tracing: %w", err)
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := shutdownOTel(sctx); err != nil {
					log.Warn().Err(err).Msg("otel shutdown")
				}
			}()

			client, err := bot.NewClient(cfg.Bot.APIURL, cfg.Bot.RequestTimeout)
			if err != nil {
				return fmt.Errorf("bot: %w", err)
			}

			r := newEngine()
			httpapi.RegisterBotRoutes(r, bot.NewEngine(client), cfg)

			log.Info().Str("catalog", client.BaseURL).Dur("timeout", cfg.Bot.RequestTimeout).Msg("bot ready")
			return runServer(ctx, "bot", newServer(cfg.Bot.Port, r))
		},
	}
}
