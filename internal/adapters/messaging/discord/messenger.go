// Package discord implements the poll messenger on top of the Discord REST
// API.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
)

// Session is the subset of *discordgo.Session the messenger uses.
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type messenger struct {
	session Session
}

func NewMessenger(session Session) ports.Messenger {
	return &messenger{session: session}
}

func (m *messenger) PostMessage(ctx context.Context, channelID string, body domain.MessageBody) (domain.MessageRef, error) {
	content, components := render(body)

	msg, err := m.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Components: components,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("%w: %w", domain.ErrDelivery, err)
	}

	return domain.MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (m *messenger) UpdateMessage(ctx context.Context, ref domain.MessageRef, body domain.MessageBody) error {
	content, components := render(body)

	_, err := m.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         ref.MessageID,
		Channel:    ref.ChannelID,
		Content:    &content,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDelivery, err)
	}
	return nil
}

func (m *messenger) AddReaction(ctx context.Context, ref domain.MessageRef, marker string) error {
	if err := m.session.MessageReactionAdd(ref.ChannelID, ref.MessageID, marker, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrReaction, marker, err)
	}
	return nil
}

func (m *messenger) ListReactions(ctx context.Context, ref domain.MessageRef) ([]domain.Reaction, error) {
	msg, err := m.session.ChannelMessage(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLookup, err)
	}

	reactions := make([]domain.Reaction, 0, len(msg.Reactions))
	for _, r := range msg.Reactions {
		if r == nil || r.Emoji == nil {
			continue
		}
		reactions = append(reactions, domain.Reaction{Marker: r.Emoji.Name, Count: r.Count})
	}
	return reactions, nil
}
