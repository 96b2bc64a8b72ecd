package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
)

// render turns a message body into Discord message content and components.
// Dividers become blank lines and the action block becomes a button row.
func render(body domain.MessageBody) (string, []discordgo.MessageComponent) {
	var (
		lines   []string
		buttons []discordgo.MessageComponent
	)

	for _, block := range body.Blocks {
		switch block.Type {
		case domain.BlockSection:
			text := block.Text
			if block.Style == domain.TextPlain {
				text = domain.EscapeMarkdown(text)
			}
			lines = append(lines, text)
		case domain.BlockDivider:
			if len(lines) > 0 && lines[len(lines)-1] != "" {
				lines = append(lines, "")
			}
		case domain.BlockActions:
			if block.Action == nil {
				continue
			}
			buttons = append(buttons, discordgo.Button{
				Label:    block.Action.Label,
				Style:    discordgo.DangerButton,
				CustomID: block.Action.ID,
			})
		}
	}

	content := strings.TrimRight(strings.Join(lines, "\n"), "\n")

	components := []discordgo.MessageComponent{}
	if len(buttons) > 0 {
		components = append(components, discordgo.ActionsRow{Components: buttons})
	}
	return content, components
}
