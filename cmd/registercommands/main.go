package main

import (
	"flag"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/chatpoll/internal/adapters/handler/interaction"
	"github.com/vncsmyrnk/chatpoll/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	var appID, guildID string
	flag.StringVar(&appID, "app-id", cfg.Discord.AppID, "Discord application id")
	flag.StringVar(&guildID, "guild-id", cfg.Discord.GuildID, "Register in this guild only (empty for global)")
	flag.Parse()

	if appID == "" {
		logrus.Fatal("an application id is required.")
	}

	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		logrus.Fatalf("failed to create discord session: %v", err)
	}

	for _, cmd := range interaction.Commands() {
		created, err := session.ApplicationCommandCreate(appID, guildID, cmd)
		if err != nil {
			logrus.Fatalf("failed to register /%s: %v", cmd.Name, err)
		}
		logrus.WithFields(logrus.Fields{
			"command": created.Name,
			"id":      created.ID,
			"guild":   guildID,
		}).Info("registered command")
	}
}
