package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/maabuz/ishbot/core/bootstrap"
	"github.com/maabuz/ishbot/core/cmd"
	"github.com/maabuz/ishbot/internal/bot"
	"github.com/maabuz/ishbot/internal/config"
	"github.com/maabuz/ishbot/internal/store"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",

		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return config.Load(path)
		},

		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			cfg := carrier.(*config.AppConfig)

			result, err := bootstrap.Run(context.Background(), bootstrap.Options{
				Config:       cfg.CoreConfig(),
				Seeders:      []bootstrap.Seeder{store.NewProvisioner(cfg.Bot.DataDir)},
				WithDatabase: cfg.Bot.CatalogBackend == config.CatalogPostgres,
				Database:     cfg.Database,
			})
			if err != nil {
				return nil, err
			}
			return bot.New(cfg, result.DB)
		},
	})
	if err != nil {
		log.Fatalf("ishbot: %v", err)
	}
}
