// find-matricule scans every cell of the enrollment workbook for a value,
// the offline twin of the !find Discord command. Handy when the bot is down
// and a student swears their matricule is in the file.
//
// Usage:
//
//	EXCEL_FILE=CMS62026.xlsx go run ./cmd/find-matricule 212231455913
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cms-acad/acadbot_backend/models"
)

func main() {
	godotenv.Load()

	if len(os.Args) < 2 || strings.TrimSpace(os.Args[1]) == "" {
		fmt.Fprintln(os.Stderr, "usage: find-matricule <valeur>")
		os.Exit(1)
	}
	needle := strings.TrimSpace(os.Args[1])

	excelFile := strings.TrimSpace(os.Getenv("EXCEL_FILE"))
	if excelFile == "" {
		excelFile = "CMS62026.xlsx"
	}

	headers, rows, err := models.ExcelRoster{Path: excelFile}.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "impossible de lire %s: %v\n", excelFile, err)
		os.Exit(1)
	}

	found := 0
	for i, row := range rows {
		for j, cell := range row {
			if !strings.Contains(cell.StringValue(), needle) {
				continue
			}
			found++
			header := fmt.Sprintf("Col%d", j+1)
			if j < len(headers) && strings.TrimSpace(headers[j]) != "" {
				header = headers[j]
			}
			fmt.Printf("ligne %d, colonne %q: %s\n", i+2, header, cell.StringValue())
		}
	}

	if found == 0 {
		fmt.Printf("%q introuvable dans %s\n", needle, excelFile)
		os.Exit(2)
	}
	fmt.Printf("%d occurrence(s) dans %s\n", found, excelFile)
}
