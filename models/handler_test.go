package models_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cms-acad/acadbot_backend/models"
)

// fakePlatform records role/message calls and can be primed to fail,
// standing in for the Discord session.
type fakePlatform struct {
	hasRole   bool
	grantErr  error
	revokeErr error

	granted  []string
	revoked  []string
	messages []string
}

func (p *fakePlatform) GrantRole(ctx context.Context, accountID string) error {
	if p.grantErr != nil {
		return p.grantErr
	}
	p.granted = append(p.granted, accountID)
	p.hasRole = true
	return nil
}

func (p *fakePlatform) RevokeRole(ctx context.Context, accountID string) error {
	if p.revokeErr != nil {
		return p.revokeErr
	}
	p.revoked = append(p.revoked, accountID)
	p.hasRole = false
	return nil
}

func (p *fakePlatform) HasRole(ctx context.Context, accountID string) (bool, error) {
	return p.hasRole, nil
}

func (p *fakePlatform) SendMessage(ctx context.Context, channelID, text string) error {
	p.messages = append(p.messages, text)
	return nil
}

func (p *fakePlatform) lastMessage() string {
	if len(p.messages) == 0 {
		return ""
	}
	return p.messages[len(p.messages)-1]
}

func newValidator(t *testing.T, catalog models.Catalog, platform *fakePlatform) *models.Validator {
	t.Helper()
	return &models.Validator{
		Catalog:  models.NewCatalogHolder(catalog),
		Ledger:   models.LoadClaimLedger(filepath.Join(t.TempDir(), "claimed.json")),
		Platform: platform,
		RoleName: "ACAD B",
	}
}

func msg(author, content string) models.InboundMessage {
	return models.InboundMessage{AuthorID: author, ChannelID: "chan-1", Content: content}
}

func TestNormalizeCandidate(t *testing.T) {
	cases := []struct{ in, want string }{
		{" 123-abc ", "123ABC"},
		{"212231455913", "212231455913"},
		{"  ", ""},
		{"!!--..", ""},
	}
	for _, c := range cases {
		if got := models.NormalizeCandidate(c.in); got != c.want {
			t.Fatalf("NormalizeCandidate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHandleMessage_EmptyInputAsksAgain(t *testing.T) {
	platform := &fakePlatform{}
	v := newValidator(t, models.Catalog{"123": {}}, platform)

	verdict := v.HandleMessage(context.Background(), msg("u1", "  --  "))
	if verdict != models.VerdictAskForInput {
		t.Fatalf("verdict = %d, want AskForInput", verdict)
	}
	if len(platform.granted)+len(platform.revoked) != 0 {
		t.Fatal("empty input must not touch roles")
	}
}

func TestHandleMessage_LettersSurviveNormalization(t *testing.T) {
	// " 123-abc " becomes candidate 123ABC, which is NOT "123": the
	// catalog miss path must apply, not a grant.
	platform := &fakePlatform{}
	v := newValidator(t, models.Catalog{"123": {}}, platform)

	verdict := v.HandleMessage(context.Background(), msg("u1", " 123-abc "))
	if verdict != models.VerdictNotRecognized {
		t.Fatalf("verdict = %d, want NotRecognized", verdict)
	}
	if len(platform.granted) != 0 {
		t.Fatal("no role may be granted for a catalog miss")
	}
}

func TestHandleMessage_NewClaimGrantsRole(t *testing.T) {
	platform := &fakePlatform{}
	v := newValidator(t, models.Catalog{"212231455913": {}}, platform)

	verdict := v.HandleMessage(context.Background(), msg("u1", "212231455913"))
	if verdict != models.VerdictGrantedNew {
		t.Fatalf("verdict = %d, want GrantedNew", verdict)
	}
	if len(platform.granted) != 1 || platform.granted[0] != "u1" {
		t.Fatalf("granted = %v, want [u1]", platform.granted)
	}
	owner, ok := v.Ledger.Owner("212231455913")
	if !ok || owner != "u1" {
		t.Fatalf("ledger owner = %q (%v), want u1", owner, ok)
	}
}

func TestHandleMessage_ReclaimRepairsMissingRole(t *testing.T) {
	platform := &fakePlatform{}
	v := newValidator(t, models.Catalog{"100": {}}, platform)
	ctx := context.Background()

	v.HandleMessage(ctx, msg("u1", "100"))
	platform.hasRole = false // role stripped out-of-band

	verdict := v.HandleMessage(ctx, msg("u1", "100"))
	if verdict != models.VerdictAlreadyOwned {
		t.Fatalf("verdict = %d, want AlreadyOwned", verdict)
	}
	if len(platform.granted) != 2 {
		t.Fatalf("granted %d times, want idempotent repair (2)", len(platform.granted))
	}
}

func TestHandleMessage_ReclaimWithRoleOnlyReplies(t *testing.T) {
	platform := &fakePlatform{}
	v := newValidator(t, models.Catalog{"100": {}}, platform)
	ctx := context.Background()

	v.HandleMessage(ctx, msg("u1", "100"))

	verdict := v.HandleMessage(ctx, msg("u1", "100"))
	if verdict != models.VerdictAlreadyOwned {
		t.Fatalf("verdict = %d, want AlreadyOwned", verdict)
	}
	if len(platform.granted) != 1 {
		t.Fatalf("granted %d times, want 1 (no re-grant when role held)", len(platform.granted))
	}
}

func TestHandleMessage_ConflictDeniesWithoutLeakingOwner(t *testing.T) {
	platform := &fakePlatform{}
	v := newValidator(t, models.Catalog{"100": {}}, platform)
	ctx := context.Background()

	v.HandleMessage(ctx, msg("owner-account-42", "100"))

	other := &fakePlatform{}
	v.Platform = other
	verdict := v.HandleMessage(ctx, msg("intruder", "100"))
	if verdict != models.VerdictDeniedConflict {
		t.Fatalf("verdict = %d, want DeniedConflict", verdict)
	}
	if len(other.granted)+len(other.revoked) != 0 {
		t.Fatal("conflict must not change roles")
	}
	if strings.Contains(other.lastMessage(), "owner-account-42") {
		t.Fatalf("conflict reply leaks the claimant: %q", other.lastMessage())
	}
	if owner, _ := v.Ledger.Owner("100"); owner != "owner-account-42" {
		t.Fatalf("ledger owner = %q, want owner-account-42", owner)
	}
}

func TestHandleMessage_UnknownMatriculeRevokesHeldRole(t *testing.T) {
	platform := &fakePlatform{hasRole: true}
	v := newValidator(t, models.Catalog{"100": {}}, platform)

	verdict := v.HandleMessage(context.Background(), msg("u1", "999"))
	if verdict != models.VerdictRevoked {
		t.Fatalf("verdict = %d, want Revoked", verdict)
	}
	if len(platform.revoked) != 1 || platform.revoked[0] != "u1" {
		t.Fatalf("revoked = %v, want [u1]", platform.revoked)
	}
}

func TestHandleMessage_UnknownMatriculeWithoutRole(t *testing.T) {
	platform := &fakePlatform{}
	v := newValidator(t, models.Catalog{"100": {}}, platform)

	verdict := v.HandleMessage(context.Background(), msg("u1", "999"))
	if verdict != models.VerdictNotRecognized {
		t.Fatalf("verdict = %d, want NotRecognized", verdict)
	}
	if len(platform.revoked) != 0 {
		t.Fatal("nothing to revoke for a member without the role")
	}
}

func TestHandleMessage_AutoRevokeDisabled(t *testing.T) {
	t.Setenv("ACAD_AUTO_REVOKE", "false")
	platform := &fakePlatform{hasRole: true}
	v := newValidator(t, models.Catalog{"100": {}}, platform)

	verdict := v.HandleMessage(context.Background(), msg("u1", "999"))
	if verdict != models.VerdictNotRecognized {
		t.Fatalf("verdict = %d, want NotRecognized with auto-revoke off", verdict)
	}
	if len(platform.revoked) != 0 {
		t.Fatal("auto-revoke disabled but role was revoked")
	}
}

func TestHandleMessage_PlatformFailureIsContained(t *testing.T) {
	platform := &fakePlatform{grantErr: errors.New("403 missing permissions")}
	v := newValidator(t, models.Catalog{"100": {}}, platform)

	verdict := v.HandleMessage(context.Background(), msg("u1", "100"))
	if verdict != models.VerdictErrored {
		t.Fatalf("verdict = %d, want Errored", verdict)
	}
	if !strings.Contains(platform.lastMessage(), "erreur") {
		t.Fatalf("user got no generic error reply: %q", platform.lastMessage())
	}
	if strings.Contains(platform.lastMessage(), "403") {
		t.Fatalf("error reply leaks internals: %q", platform.lastMessage())
	}
}
