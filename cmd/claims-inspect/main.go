// claims-inspect prints the claim ledger (matricule -> Discord account id).
// The file is plain JSON, but this tool sorts it and can filter, which beats
// eyeballing claimed.json on the server.
//
// Usage:
//
//	go run ./cmd/claims-inspect                 # full listing
//	go run ./cmd/claims-inspect 212231455913    # filter by matricule or account id
//
// CLAIM_FILE overrides the ledger path (default claimed.json).
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cms-acad/acadbot_backend/models"
)

func main() {
	godotenv.Load()

	path := strings.TrimSpace(os.Getenv("CLAIM_FILE"))
	if path == "" {
		path = "claimed.json"
	}
	var filter string
	if len(os.Args) > 1 {
		filter = strings.TrimSpace(os.Args[1])
	}

	ledger := models.LoadClaimLedger(path)
	claims := ledger.Snapshot()
	if len(claims) == 0 {
		fmt.Printf("aucun claim dans %s\n", path)
		return
	}

	matricules := make([]string, 0, len(claims))
	for m := range claims {
		matricules = append(matricules, m)
	}
	sort.Strings(matricules)

	shown := 0
	for _, m := range matricules {
		account := claims[m]
		if filter != "" && m != filter && account != filter {
			continue
		}
		fmt.Printf("%s -> %s\n", m, account)
		shown++
	}
	fmt.Printf("%d claim(s) affiché(s) sur %d (%s)\n", shown, len(claims), path)
}
