package main

import (
	"context"
	"log"

	"github.com/spf13/pflag"

	"eventbot/internal/adapters/discord"
	"eventbot/internal/config"
	"eventbot/internal/infrastructure/database"
	"eventbot/internal/infrastructure/i18n"
	"eventbot/pkg/tz"
)

func main() {
	envFile := pflag.String("env-file", "", "fichier .env à charger (défaut: .env s'il existe)")
	migrations := pflag.String("migrations", "", "dossier des migrations SQL (remplace MIGRATIONS_PATH)")
	skipMigrate := pflag.Bool("skip-migrate", false, "ne pas appliquer les migrations au démarrage")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}
	if *migrations != "" {
		cfg.MigrationsPath = *migrations
	}

	if !*skipMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatalf("❌ Erreur lors des migrations: %v", err)
		}
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Erreur lors de l'initialisation de la base de données: %v", err)
	}
	defer pool.Close()

	loc, err := tz.Load(cfg.EventTimezone)
	if err != nil {
		log.Fatalf("❌ Fuseau horaire invalide: %v", err)
	}
	store := database.NewEventStore(pool, loc)
	tr := i18n.NewTranslator(cfg.Locale)

	bot, err := discord.NewBot(cfg, store, tr)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := bot.Start(ctx); err != nil {
		pool.Close()
		log.Fatalf("❌ Erreur lors de l'exécution du bot: %v", err)
	}
}
