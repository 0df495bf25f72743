package config_test

import (
	"testing"

	"github.com/cms-acad/acadbot_backend/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("MATRICULE_COL", "")
	t.Setenv("PROGRAM_COL", "")
	t.Setenv("SECTION_COL", "")
	t.Setenv("ROLE_NAME", "")
	t.Setenv("EXCEL_FILE", "")
	t.Setenv("CLAIM_FILE", "")
	t.Setenv("PORT", "")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RoleName != "ACAD B" {
		t.Fatalf("RoleName = %q, want ACAD B", cfg.RoleName)
	}
	if cfg.MatriculeCol != 6 || cfg.ProgramCol != 8 || cfg.SectionCol != 9 {
		t.Fatalf("column defaults = %d/%d/%d, want 6/8/9",
			cfg.MatriculeCol, cfg.ProgramCol, cfg.SectionCol)
	}
	if cfg.ExcelFile != "CMS62026.xlsx" || cfg.ClaimFile != "claimed.json" {
		t.Fatalf("file defaults = %q / %q", cfg.ExcelFile, cfg.ClaimFile)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
}

func TestLoadConfig_MissingTokenFails(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	if _, err := config.LoadConfig(); err == nil {
		t.Fatal("LoadConfig succeeded without DISCORD_TOKEN")
	}
}

func TestLoadConfig_BadColumnFails(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("MATRICULE_COL", "seven")
	if _, err := config.LoadConfig(); err == nil {
		t.Fatal("LoadConfig accepted a non-integer column offset")
	}
}
