package models

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cms-acad/acadbot_backend/config"
	"github.com/cms-acad/acadbot_backend/utils"
)

type ClaimOutcome int

const (
	// ClaimNewlyClaimed: the matricule had no owner; it now belongs to the
	// requester and the ledger file has been rewritten.
	ClaimNewlyClaimed ClaimOutcome = iota
	// ClaimOwnedBySelf: the requester already owns the matricule. No mutation.
	ClaimOwnedBySelf
	// ClaimOwnedByOther: someone else owns it. No mutation; treated as a
	// fraud signal by callers.
	ClaimOwnedByOther
)

// ClaimLedger maps matricule -> Discord account id, mirrored in memory and
// rewritten to the claim file on every successful mutation. The file stays a
// flat JSON object so an admin can read and hand-edit it.
type ClaimLedger struct {
	mu     sync.Mutex
	path   string
	claims map[string]string
}

// LoadClaimLedger reads the claim file. A missing file is the normal first
// run; a corrupt one is logged and replaced by an empty ledger rather than
// blocking startup.
func LoadClaimLedger(path string) *ClaimLedger {
	logger := config.GetLogger()
	ledger := &ClaimLedger{path: path, claims: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			config.LogError(logger, "models/ledger.go", "LoadClaimLedger", "read claim file",
				map[string]any{"path": path}, err)
		}
		return ledger
	}

	if err := utils.UnmarshalFromJSON(data, &ledger.claims); err != nil {
		config.LogError(logger, "models/ledger.go", "LoadClaimLedger", "parse claim file",
			map[string]any{"path": path}, err)
		ledger.claims = make(map[string]string)
		return ledger
	}
	logger.WithField("count", len(ledger.claims)).Info("claims chargés")
	return ledger
}

// TryClaim arbitrates one claim attempt. First claim wins; a repeat attempt
// by the owner is idempotent; an attempt by anyone else leaves the ledger
// untouched. The mutex is the single serialization point required when the
// platform delivers messages concurrently.
func (l *ClaimLedger) TryClaim(matricule, accountID string) ClaimOutcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	owner, exists := l.claims[matricule]
	if exists {
		if owner == accountID {
			return ClaimOwnedBySelf
		}
		config.GetLogger().WithFields(logrus.Fields{
			"matricule": matricule,
			"account":   accountID,
		}).Warn("tentative de fraude: matricule déjà réclamé par un autre compte")
		return ClaimOwnedByOther
	}

	l.claims[matricule] = accountID
	l.persistLocked()
	return ClaimNewlyClaimed
}

// Owner reports the current claimant of a matricule, if any.
func (l *ClaimLedger) Owner(matricule string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.claims[matricule]
	return owner, ok
}

func (l *ClaimLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.claims)
}

// Snapshot copies the full mapping, for admin reports and the inspect CLI.
func (l *ClaimLedger) Snapshot() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.claims))
	for k, v := range l.claims {
		out[k] = v
	}
	return out
}

// persistLocked rewrites the whole claim file. A write failure keeps the
// in-memory claim; the accepted loss window is that one mutation if the
// process dies before the next successful write.
func (l *ClaimLedger) persistLocked() {
	data, err := utils.MarshalToJSONIndent(l.claims)
	if err != nil {
		config.LogError(config.GetLogger(), "models/ledger.go", "persistLocked", "marshal claims", nil, err)
		return
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		config.LogError(config.GetLogger(), "models/ledger.go", "persistLocked", "write claim file",
			map[string]any{"path": l.path}, err)
	}
}
