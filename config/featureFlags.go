package config

import (
	"os"
	"strings"
)

// AutoRevokeEnabled controls whether the bot strips the role when a member
// sends a matricule that is not in the catalog. Enabled by default.
//
// Set via env:
// - ACAD_AUTO_REVOKE=false
func AutoRevokeEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ACAD_AUTO_REVOKE")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// DebugMatricule names one matricule to trace through catalog builds.
// Used when a student reports a rejection that the data says should pass.
//
// Set via env:
// - DEBUG_MATRICULE=212231455913
func DebugMatricule() string {
	return strings.TrimSpace(os.Getenv("DEBUG_MATRICULE"))
}
