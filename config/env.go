package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the full startup surface of the bot. Column offsets are
// zero-based and match the registrar's export layout (matricule in G,
// affectation in I, "Section Prog. Web" in J).
type Config struct {
	DiscordToken string `validate:"required"`
	GuildID      string `validate:"required"`
	ChannelID    string `validate:"required"`
	RoleName     string `validate:"required"`
	ExcelFile    string `validate:"required"`
	ClaimFile    string `validate:"required"`
	MatriculeCol int    `validate:"gte=0"`
	ProgramCol   int    `validate:"gte=0"`
	SectionCol   int    `validate:"gte=0"`
	Port         string `validate:"required"`
}

func init() {
	// Load env from .env; absent file is fine in deployment.
	godotenv.Load()
}

// LoadConfig reads env vars with the deployment defaults and validates the
// result. Only DISCORD_TOKEN has no default.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DiscordToken: strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
		GuildID:      envOrDefault("GUILD_ID", "1451327990628614298"),
		ChannelID:    envOrDefault("CHANNEL_ID", "1451336152568037456"),
		RoleName:     envOrDefault("ROLE_NAME", "ACAD B"),
		ExcelFile:    envOrDefault("EXCEL_FILE", "CMS62026.xlsx"),
		ClaimFile:    envOrDefault("CLAIM_FILE", "claimed.json"),
		Port:         envOrDefault("PORT", "8080"),
	}

	var err error
	if cfg.MatriculeCol, err = envIntOrDefault("MATRICULE_COL", 6); err != nil {
		return nil, err
	}
	if cfg.ProgramCol, err = envIntOrDefault("PROGRAM_COL", 8); err != nil {
		return nil, err
	}
	if cfg.SectionCol, err = envIntOrDefault("SECTION_COL", 9); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration invalide: %w", err)
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s doit être un entier: %w", key, err)
	}
	return n, nil
}
