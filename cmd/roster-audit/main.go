// roster-audit re-runs the matricule validation rules over the enrollment
// workbook and prints the report the !checkall command shows in Discord.
//
// Usage:
//
//	EXCEL_FILE=CMS62026.xlsx go run ./cmd/roster-audit
//
// Column offsets come from the same env vars as the bot
// (MATRICULE_COL, PROGRAM_COL, SECTION_COL).
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cms-acad/acadbot_backend/models"
)

func main() {
	godotenv.Load()

	excelFile := envOrDefault("EXCEL_FILE", "CMS62026.xlsx")
	cm := models.ColumnMap{
		MatriculeCol: envInt("MATRICULE_COL", 6),
		ProgramCol:   envInt("PROGRAM_COL", 8),
		SectionCol:   envInt("SECTION_COL", 9),
	}

	headers, rows, err := models.ExcelRoster{Path: excelFile}.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "impossible de lire %s: %v\n", excelFile, err)
		os.Exit(1)
	}

	catalog, rejections := models.BuildCatalog(rows, cm)

	fmt.Printf("Fichier: %s\n", excelFile)
	fmt.Printf("En-têtes: %v\n", headers)
	fmt.Printf("Lignes de données: %d\n", len(rows))
	fmt.Printf("Matricules valides: %d\n", catalog.Len())
	fmt.Printf("Rejets: %d\n", len(rejections))
	for _, r := range rejections {
		fmt.Println("  " + r)
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s doit être un entier: %v\n", key, err)
		os.Exit(1)
	}
	return n
}
