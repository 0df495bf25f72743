package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cms-acad/acadbot_backend/config"
	"github.com/cms-acad/acadbot_backend/models"
	"github.com/cms-acad/acadbot_backend/utils"
)

const commandPrefix = "!"

// bot owns the gateway session and the validation state handed to every
// message.
type bot struct {
	session *discordgo.Session
	cfg     *config.Config
	holder  *models.CatalogHolder
	ledger  *models.ClaimLedger
}

func newBot(cfg *config.Config, holder *models.CatalogHolder, ledger *models.ClaimLedger) (*bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("session Discord: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	b := &bot{session: session, cfg: cfg, holder: holder, ledger: ledger}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

// open connects to the gateway. A login failure here is the one fatal error
// of the whole process.
func (b *bot) open() error {
	return b.session.Open()
}

func (b *bot) close() error {
	return b.session.Close()
}

func (b *bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger := config.GetLogger()
	logger.WithFields(logrus.Fields{
		"user":   r.User.Username,
		"id":     r.User.ID,
		"guilds": len(r.Guilds),
	}).Info("bot connecté")

	b.updatePresence()

	if b.holder.Get().Len() == 0 {
		logger.Warn("aucun matricule chargé. Vérifiez le fichier Excel.")
	}
}

// updatePresence shows the catalog size as the watching status. Refreshed
// after every !reload.
func (b *bot) updatePresence() {
	if err := b.session.UpdateWatchStatus(0, fmt.Sprintf("%d matricules", b.holder.Get().Len())); err != nil {
		config.LogError(config.GetLogger(), "discord.go", "updatePresence", "update status", nil, err)
	}
}

func (b *bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	if strings.HasPrefix(m.Content, commandPrefix) {
		b.dispatchCommand(s, m)
		return
	}

	if m.ChannelID != b.cfg.ChannelID {
		return
	}

	ctx := context.Background()
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())
	ctx = utils.SetAuthorIdInContext(ctx, m.Author.ID)
	ctx = utils.SetChannelIdInContext(ctx, m.ChannelID)

	roleID, err := b.lookupRoleID()
	if err != nil {
		config.LogError(config.GetLogger(), "discord.go", "onMessageCreate", "lookup role",
			map[string]any{"role": b.cfg.RoleName}, err)
		b.sendText(m.ChannelID, "❌ Erreur: rôle non configuré.")
		return
	}

	validator := &models.Validator{
		Catalog:  b.holder,
		Ledger:   b.ledger,
		Platform: &discordPlatform{session: s, guildID: b.cfg.GuildID, roleID: roleID},
		RoleName: b.cfg.RoleName,
	}
	validator.HandleMessage(ctx, models.InboundMessage{
		AuthorID:  m.Author.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
	})
}

// lookupRoleID resolves the configured role name, preferring the state
// cache over a REST call.
func (b *bot) lookupRoleID() (string, error) {
	var roles []*discordgo.Role
	if guild, err := b.session.State.Guild(b.cfg.GuildID); err == nil && guild != nil {
		roles = guild.Roles
	}
	if len(roles) == 0 {
		var err error
		roles, err = b.session.GuildRoles(b.cfg.GuildID)
		if err != nil {
			return "", err
		}
	}
	for _, role := range roles {
		if role.Name == b.cfg.RoleName {
			return role.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", utils.ErrorRoleNotFound, b.cfg.RoleName)
}

func (b *bot) sendText(channelID, text string) {
	if _, err := b.session.ChannelMessageSend(channelID, text); err != nil {
		config.LogError(config.GetLogger(), "discord.go", "sendText", "send message",
			map[string]any{"channel": channelID}, err)
	}
}

// discordPlatform adapts the session to the models.ChatPlatform contract.
type discordPlatform struct {
	session *discordgo.Session
	guildID string
	roleID  string
}

func (p *discordPlatform) GrantRole(ctx context.Context, accountID string) error {
	return p.session.GuildMemberRoleAdd(p.guildID, accountID, p.roleID, discordgo.WithContext(ctx))
}

func (p *discordPlatform) RevokeRole(ctx context.Context, accountID string) error {
	return p.session.GuildMemberRoleRemove(p.guildID, accountID, p.roleID, discordgo.WithContext(ctx))
}

func (p *discordPlatform) HasRole(ctx context.Context, accountID string) (bool, error) {
	member, err := p.session.State.Member(p.guildID, accountID)
	if err != nil || member == nil {
		member, err = p.session.GuildMember(p.guildID, accountID, discordgo.WithContext(ctx))
		if err != nil {
			return false, err
		}
	}
	for _, id := range member.Roles {
		if id == p.roleID {
			return true, nil
		}
	}
	return false, nil
}

func (p *discordPlatform) SendMessage(ctx context.Context, channelID, text string) error {
	_, err := p.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	return err
}
