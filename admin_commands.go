package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/cms-acad/acadbot_backend/config"
	"github.com/cms-acad/acadbot_backend/models"
)

const (
	embedColorBlue   = 0x3498db
	embedColorGreen  = 0x2ecc71
	embedColorRed    = 0xe74c3c
	embedColorOrange = 0xe67e22
)

func (b *bot) dispatchCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	fields := strings.Fields(strings.TrimPrefix(m.Content, commandPrefix))
	if len(fields) == 0 {
		return
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "reload", "checkall", "find", "checkrow", "claims":
	default:
		return
	}

	if !b.isAdministrator(s, m) {
		b.sendText(m.ChannelID, "❌ Vous n'avez pas la permission d'utiliser cette commande.")
		return
	}

	config.GetLogger().WithFields(logrus.Fields{
		"command": command,
		"author":  m.Author.ID,
	}).Info("commande admin")

	switch command {
	case "reload":
		b.commandReload(m)
	case "checkall":
		b.commandCheckAll(m)
	case "find":
		b.commandFind(m, args)
	case "checkrow":
		b.commandCheckRow(m, args)
	case "claims":
		b.commandClaims(m)
	}
}

func (b *bot) isAdministrator(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		config.LogError(config.GetLogger(), "admin_commands.go", "isAdministrator", "permission lookup",
			map[string]any{"author": m.Author.ID}, err)
		return false
	}
	return perms&discordgo.PermissionAdministrator != 0
}

// commandReload rebuilds the catalog from the workbook and swaps the
// snapshot. Members validating during the rebuild see the old set.
func (b *bot) commandReload(m *discordgo.MessageCreate) {
	previous := b.holder.Get().Len()
	catalog, rejections := models.LoadCatalog(b.cfg.ExcelFile, b.columnMap())
	b.holder.Swap(catalog)
	b.updatePresence()

	embed := &discordgo.MessageEmbed{
		Title: "🔄 Catalogue rechargé",
		Color: embedColorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Avant", Value: strconv.Itoa(previous), Inline: true},
			{Name: "Après", Value: strconv.Itoa(catalog.Len()), Inline: true},
			{Name: "Rejets", Value: strconv.Itoa(len(rejections)), Inline: true},
		},
	}
	if sample := sampleLines(rejections, 5); sample != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Exemples de rejets", Value: "```" + sample + "```",
		})
	}
	b.sendEmbed(m.ChannelID, embed)
}

// commandCheckAll re-validates every data row and reports counts plus the
// first invalid details, like the startup load but on demand.
func (b *bot) commandCheckAll(m *discordgo.MessageCreate) {
	_, rows, err := models.ExcelRoster{Path: b.cfg.ExcelFile}.Load()
	if err != nil {
		b.sendText(m.ChannelID, "❌ Erreur: "+err.Error())
		return
	}

	catalog, rejections := models.BuildCatalog(rows, b.columnMap())

	embed := &discordgo.MessageEmbed{
		Title: "📊 Rapport de Validation des Matricules",
		Color: embedColorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "✅ Matricules Valides", Value: strconv.Itoa(catalog.Len()), Inline: true},
			{Name: "❌ Matricules Invalides", Value: strconv.Itoa(len(rejections)), Inline: true},
			{Name: "📈 Total", Value: strconv.Itoa(catalog.Len() + len(rejections)), Inline: true},
		},
	}
	if details := sampleLines(rejections, 10); details != "" {
		if len(rejections) > 10 {
			details += fmt.Sprintf("\n... et %d autres", len(rejections)-10)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "📝 Détails des Invalides", Value: "```" + details + "```",
		})
	}
	b.sendEmbed(m.ChannelID, embed)
}

// commandFind scans every cell of the workbook for the given value and
// shows the matching rows.
func (b *bot) commandFind(m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.sendText(m.ChannelID, "❌ Argument manquant. Usage: `!find <matricule>`")
		return
	}
	needle := strings.TrimSpace(args[0])

	headers, rows, err := models.ExcelRoster{Path: b.cfg.ExcelFile}.Load()
	if err != nil {
		b.sendText(m.ChannelID, "❌ Erreur: "+err.Error())
		return
	}

	type match struct {
		rowIdx int
		row    []models.CellValue
	}
	var matches []match
	for i, row := range rows {
		for _, cell := range row {
			if strings.Contains(cell.StringValue(), needle) {
				matches = append(matches, match{rowIdx: i + 2, row: row})
				break
			}
		}
	}

	if len(matches) == 0 {
		b.sendEmbed(m.ChannelID, &discordgo.MessageEmbed{
			Title:       "❌ Matricule NON trouvé: " + needle,
			Description: "Le matricule n'existe nulle part dans le fichier Excel",
			Color:       embedColorRed,
		})
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🔍 Matricule trouvé: " + needle,
		Description: fmt.Sprintf("**%d occurrence(s) trouvée(s)**", len(matches)),
		Color:       embedColorGreen,
	}
	for _, mt := range matches[:minInt(len(matches), 3)] {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("📍 Ligne %d", mt.rowIdx),
			Value: formatRow(headers, mt.row, 8),
		})
	}
	if len(matches) > 3 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("... et %d autres occurrences", len(matches)-3),
		}
	}
	b.sendEmbed(m.ChannelID, embed)
}

// commandCheckRow dumps the three mapped columns for one data row, for
// chasing layout drift in a fresh registrar export.
func (b *bot) commandCheckRow(m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.sendText(m.ChannelID, "❌ Argument manquant. Usage: `!checkrow <ligne>`")
		return
	}
	rowNum, err := strconv.Atoi(args[0])
	if err != nil || rowNum < 2 {
		b.sendText(m.ChannelID, "❌ Numéro de ligne invalide (la ligne 1 est l'en-tête).")
		return
	}

	_, rows, err := models.ExcelRoster{Path: b.cfg.ExcelFile}.Load()
	if err != nil {
		b.sendText(m.ChannelID, "❌ Erreur: "+err.Error())
		return
	}
	idx := rowNum - 2
	if idx >= len(rows) {
		b.sendText(m.ChannelID, fmt.Sprintf("❌ Ligne %d hors limites (%d lignes de données).", rowNum, len(rows)))
		return
	}

	cm := b.columnMap()
	row := rows[idx]
	ext := models.ExtractRow(row, cm)

	verdict := "ignorée (pas de matricule)"
	switch ext.Status {
	case models.ExtractionValid:
		verdict = "✅ valide"
	case models.ExtractionInvalid:
		verdict = "❌ " + ext.Reason
	}

	b.sendEmbed(m.ChannelID, &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🔍 Ligne %d", rowNum),
		Color: embedColorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Matricule", Value: codeOrDash(cellString(row, cm.MatriculeCol)), Inline: true},
			{Name: "Programme", Value: codeOrDash(cellString(row, cm.ProgramCol)), Inline: true},
			{Name: "Section", Value: codeOrDash(cellString(row, cm.SectionCol)), Inline: true},
			{Name: "Verdict", Value: verdict},
		},
	})
}

// commandClaims summarizes the claim ledger without listing account ids in
// the channel.
func (b *bot) commandClaims(m *discordgo.MessageCreate) {
	b.sendEmbed(m.ChannelID, &discordgo.MessageEmbed{
		Title: "📒 Claims",
		Color: embedColorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Matricules réclamés", Value: strconv.Itoa(b.ledger.Len()), Inline: true},
			{Name: "Matricules valides", Value: strconv.Itoa(b.holder.Get().Len()), Inline: true},
		},
	})
}

func (b *bot) columnMap() models.ColumnMap {
	return models.ColumnMap{
		MatriculeCol: b.cfg.MatriculeCol,
		ProgramCol:   b.cfg.ProgramCol,
		SectionCol:   b.cfg.SectionCol,
	}
}

func (b *bot) sendEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		config.LogError(config.GetLogger(), "admin_commands.go", "sendEmbed", "send embed",
			map[string]any{"channel": channelID}, err)
	}
}

func formatRow(headers []string, row []models.CellValue, maxFields int) string {
	var lines []string
	for i, cell := range row {
		if len(lines) >= maxFields {
			break
		}
		name := fmt.Sprintf("Col%d", i+1)
		if i < len(headers) && strings.TrimSpace(headers[i]) != "" {
			name = headers[i]
		}
		lines = append(lines, fmt.Sprintf("**%s:** `%s`", name, cell.StringValue()))
	}
	return strings.Join(lines, "\n")
}

func sampleLines(lines []string, max int) string {
	if len(lines) == 0 {
		return ""
	}
	if len(lines) > max {
		lines = lines[:max]
	}
	return strings.Join(lines, "\n")
}

func cellString(row []models.CellValue, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx].StringValue()
}

func codeOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return "`" + s + "`"
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
