package models

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/cms-acad/acadbot_backend/config"
	"github.com/cms-acad/acadbot_backend/utils"
)

// ChatPlatform is what the validation flow needs from Discord. Keeping it an
// interface keeps the SDK out of this package and lets tests record calls.
type ChatPlatform interface {
	GrantRole(ctx context.Context, accountID string) error
	RevokeRole(ctx context.Context, accountID string) error
	HasRole(ctx context.Context, accountID string) (bool, error)
	SendMessage(ctx context.Context, channelID, text string) error
}

// InboundMessage is one message from the validation channel.
type InboundMessage struct {
	AuthorID  string
	ChannelID string
	Content   string
}

type Verdict int

const (
	VerdictAskForInput Verdict = iota
	VerdictGrantedNew
	VerdictAlreadyOwned
	VerdictDeniedConflict
	VerdictNotRecognized
	VerdictRevoked
	VerdictErrored
)

// Validator processes validation requests against the current catalog
// snapshot and the claim ledger.
type Validator struct {
	Catalog  *CatalogHolder
	Ledger   *ClaimLedger
	Platform ChatPlatform
	RoleName string
}

// NormalizeCandidate turns raw message text into a candidate matricule:
// keep alphanumeric runes, uppercase the rest. "  123-abc " becomes "123ABC".
func NormalizeCandidate(text string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(text)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HandleMessage runs the full validation flow for one message and replies in
// the message's channel. Every failure is contained here: the worst outcome
// for the process is one errored message, never a dead handler.
func (v *Validator) HandleMessage(ctx context.Context, msg InboundMessage) Verdict {
	logger := config.GetLogger()

	candidate := NormalizeCandidate(msg.Content)
	if candidate == "" {
		v.reply(ctx, msg, fmt.Sprintf("<@%s>, veuillez entrer un matricule valide.", msg.AuthorID))
		return VerdictAskForInput
	}

	correlationID, _ := utils.GetCorrelationIdFromContext(ctx)
	logger.WithFields(logrus.Fields{
		"author":        msg.AuthorID,
		"matricule":     candidate,
		"correlationId": correlationID,
	}).Info("tentative de validation")

	if v.Catalog.Get().Contains(candidate) {
		return v.handleKnownMatricule(ctx, msg, candidate)
	}
	return v.handleUnknownMatricule(ctx, msg)
}

func (v *Validator) handleKnownMatricule(ctx context.Context, msg InboundMessage, matricule string) Verdict {
	logger := config.GetLogger()

	switch v.Ledger.TryClaim(matricule, msg.AuthorID) {
	case ClaimNewlyClaimed:
		if err := v.Platform.GrantRole(ctx, msg.AuthorID); err != nil {
			return v.fail(ctx, msg, "grant role", err)
		}
		v.reply(ctx, msg, fmt.Sprintf("<@%s>, matricule valide ✅ ! Rôle %s attribué.", msg.AuthorID, v.RoleName))
		logger.WithFields(logrus.Fields{
			"matricule": matricule,
			"author":    msg.AuthorID,
		}).Info("matricule attribué")
		return VerdictGrantedNew

	case ClaimOwnedBySelf:
		hasRole, err := v.Platform.HasRole(ctx, msg.AuthorID)
		if err != nil {
			return v.fail(ctx, msg, "check role", err)
		}
		if !hasRole {
			if err := v.Platform.GrantRole(ctx, msg.AuthorID); err != nil {
				return v.fail(ctx, msg, "re-grant role", err)
			}
			v.reply(ctx, msg, fmt.Sprintf("<@%s>, matricule déjà validé ✅. Rôle %s ajouté.", msg.AuthorID, v.RoleName))
		} else {
			v.reply(ctx, msg, fmt.Sprintf("<@%s>, tu as déjà validé ton matricule ✅.", msg.AuthorID))
		}
		return VerdictAlreadyOwned

	default: // ClaimOwnedByOther
		// Never name the other claimant here.
		v.reply(ctx, msg, fmt.Sprintf(
			"<@%s>, ce matricule est déjà utilisé par un autre membre ❌.\nContactez un administrateur si c'est une erreur.",
			msg.AuthorID))
		return VerdictDeniedConflict
	}
}

func (v *Validator) handleUnknownMatricule(ctx context.Context, msg InboundMessage) Verdict {
	logger := config.GetLogger()

	hasRole, err := v.Platform.HasRole(ctx, msg.AuthorID)
	if err != nil {
		return v.fail(ctx, msg, "check role", err)
	}

	if hasRole && config.AutoRevokeEnabled() {
		if err := v.Platform.RevokeRole(ctx, msg.AuthorID); err != nil {
			return v.fail(ctx, msg, "revoke role", err)
		}
		v.reply(ctx, msg, fmt.Sprintf("<@%s>, matricule invalide ❌. Rôle %s retiré.", msg.AuthorID, v.RoleName))
		logger.WithField("author", msg.AuthorID).Info("rôle retiré (matricule invalide)")
		return VerdictRevoked
	}

	v.reply(ctx, msg, fmt.Sprintf(
		"<@%s>, matricule non reconnu ❌.\nVérifiez votre matricule ou contactez un enseignant.", msg.AuthorID))
	return VerdictNotRecognized
}

// fail logs a platform failure (missing permissions, mostly) and tells the
// user something went wrong without leaking details.
func (v *Validator) fail(ctx context.Context, msg InboundMessage, op string, err error) Verdict {
	config.LogError(config.GetLogger(), "models/handler.go", "HandleMessage", op,
		map[string]any{"author": msg.AuthorID}, err)
	v.reply(ctx, msg, "❌ Une erreur est survenue lors de la validation.")
	return VerdictErrored
}

func (v *Validator) reply(ctx context.Context, msg InboundMessage, text string) {
	if err := v.Platform.SendMessage(ctx, msg.ChannelID, text); err != nil {
		config.LogError(config.GetLogger(), "models/handler.go", "reply", "send message",
			map[string]any{"channel": msg.ChannelID}, err)
	}
}
