package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Token                 string
	GuildID               string
	OwnerID               string
	EventOrganizerRoleID  string
	AdminRoleID           string
	CommandPrefix         string
	Locale                string
	EventTimezone         string
	DatabaseURL           string
	MigrationsPath        string
	AutosaveInterval      time.Duration
	autosaveIntervalInput string
}

// Load charge la configuration depuis envFile (optionnel) puis les variables
// d'environnement, et la valide.
func Load(envFile string) (*Config, error) {
	files := []string{}
	if envFile != "" {
		files = append(files, envFile)
	}
	if err := godotenv.Load(files...); err != nil && envFile != "" {
		// Un fichier explicitement demandé doit exister ; .env par défaut reste optionnel.
		return nil, fmt.Errorf("config: lecture de %s: %w", envFile, err)
	}

	cfg := &Config{
		Token:                 os.Getenv("TOKEN"),
		GuildID:               os.Getenv("GUILD_ID"),
		OwnerID:               os.Getenv("OWNER_ID"),
		EventOrganizerRoleID:  os.Getenv("EVENT_ORGANIZER_ROLE_ID"),
		AdminRoleID:           os.Getenv("ADMIN_ROLE_ID"),
		CommandPrefix:         os.Getenv("COMMAND_PREFIX"),
		Locale:                os.Getenv("LOCALE"),
		EventTimezone:         os.Getenv("EVENT_TIMEZONE"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		MigrationsPath:        os.Getenv("MIGRATIONS_PATH"),
		autosaveIntervalInput: os.Getenv("AUTOSAVE_INTERVAL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN est requis et ne peut pas être vide")
	}

	if strings.TrimSpace(c.GuildID) == "" {
		return fmt.Errorf("config: GUILD_ID est requis et ne peut pas être vide")
	}

	for name, id := range map[string]string{
		"GUILD_ID":                c.GuildID,
		"OWNER_ID":                c.OwnerID,
		"EVENT_ORGANIZER_ROLE_ID": c.EventOrganizerRoleID,
		"ADMIN_ROLE_ID":           c.AdminRoleID,
	} {
		if !isSnowflake(id) {
			return fmt.Errorf("config: %s doit être un ID Discord (chiffres uniquement)", name)
		}
	}

	if c.CommandPrefix == "" {
		c.CommandPrefix = "!"
	}
	if strings.ContainsAny(c.CommandPrefix, " \t\n") {
		return fmt.Errorf("config: COMMAND_PREFIX ne peut pas contenir d'espace")
	}

	if c.Locale == "" {
		c.Locale = "en"
	}

	if c.EventTimezone == "" {
		c.EventTimezone = "UTC"
	}
	if _, err := time.LoadLocation(c.EventTimezone); err != nil {
		return fmt.Errorf("config: EVENT_TIMEZONE invalide (%q): %w", c.EventTimezone, err)
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Valeur par défaut utile en local lorsque DATABASE_URL n'est pas fournie.
		c.DatabaseURL = "postgres://localhost:5432/eventbot?sslmode=disable"
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
	}

	if c.MigrationsPath == "" {
		c.MigrationsPath = "migrations"
	}

	c.AutosaveInterval = time.Minute
	if c.autosaveIntervalInput != "" {
		d, err := time.ParseDuration(c.autosaveIntervalInput)
		if err != nil || d <= 0 {
			return fmt.Errorf("config: AUTOSAVE_INTERVAL invalide (%q)", c.autosaveIntervalInput)
		}
		c.AutosaveInterval = d
	}

	return nil
}

// isSnowflake accepte une valeur vide ou composée uniquement de chiffres.
func isSnowflake(id string) bool {
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
