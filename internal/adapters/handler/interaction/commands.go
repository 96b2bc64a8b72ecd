package interaction

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	PollCommandName = "poll"

	optionQuestion = "question"
	optionChannel  = "channel"
)

var optionNames = []string{"option_1", "option_2", "option_3"}

// Commands returns the application commands the dispatcher answers to.
func Commands() []*discordgo.ApplicationCommand {
	options := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optionQuestion,
			Description: "Question to ask",
			Required:    true,
		},
	}
	for i, name := range optionNames {
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        name,
			Description: fmt.Sprintf("Option %d", i+1),
			Required:    true,
		})
	}
	options = append(options, &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         optionChannel,
		Description:  "Channel to send the poll to",
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	})

	return []*discordgo.ApplicationCommand{
		{
			Name:        PollCommandName,
			Description: "Start a poll in a channel",
			Options:     options,
		},
	}
}
