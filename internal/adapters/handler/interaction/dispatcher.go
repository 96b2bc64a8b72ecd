// Package interaction turns Discord interactions into poll operations.
package interaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
)

// ActionHandler answers a single interaction.
type ActionHandler func(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse

type Dispatcher struct {
	polls    ports.PollService
	pending  ports.PendingPollStore
	log      logrus.FieldLogger
	commands map[string]ActionHandler
	actions  map[string]ActionHandler
}

func NewDispatcher(polls ports.PollService, pending ports.PendingPollStore, log logrus.FieldLogger) *Dispatcher {
	d := &Dispatcher{
		polls:   polls,
		pending: pending,
		log:     log.WithField("module", "interactions"),
	}
	d.commands = map[string]ActionHandler{
		PollCommandName: d.openPoll,
	}
	d.actions = map[string]ActionHandler{
		domain.CloseActionID: d.closePoll,
	}
	return d
}

func (d *Dispatcher) Dispatch(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse {
	var (
		handler ActionHandler
		ok      bool
	)

	switch i.Type {
	case discordgo.InteractionPing:
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}
	case discordgo.InteractionApplicationCommand:
		handler, ok = d.commands[i.ApplicationCommandData().Name]
	case discordgo.InteractionMessageComponent:
		handler, ok = d.actions[i.MessageComponentData().CustomID]
	}

	if !ok {
		d.log.WithField("type", i.Type.String()).Warn("no handler for interaction")
		return ephemeral("Unknown action.")
	}
	return handler(ctx, i)
}

func (d *Dispatcher) openPoll(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse {
	input := ports.OpenPollInput{
		CreatorID: actorID(i),
		ChannelID: i.ChannelID,
	}

	values := make(map[string]string)
	for _, opt := range i.ApplicationCommandData().Options {
		if v, ok := opt.Value.(string); ok {
			values[opt.Name] = v
		}
	}
	input.Question = values[optionQuestion]
	for _, name := range optionNames {
		input.Options = append(input.Options, values[name])
	}
	if channel := values[optionChannel]; channel != "" {
		input.ChannelID = channel
	}

	poll, err := d.polls.Open(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return ephemeral(err.Error())
		}
		d.log.WithError(err).Error("failed to open poll")
		return ephemeral(fmt.Sprintf("An error was encountered during poll generation: `%s`", err))
	}

	if err := d.pending.Save(ctx, poll); err != nil {
		d.log.WithField("message", poll.MessageRef.String()).WithError(err).Error("failed to keep poll open for closing")
		return ephemeral("Poll posted, but it cannot be closed later. Please try again.")
	}

	return ephemeral("Poll posted.")
}

func (d *Dispatcher) closePoll(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse {
	if i.Message == nil {
		return ephemeral("Unknown action.")
	}
	ref := domain.MessageRef{ChannelID: i.ChannelID, MessageID: i.Message.ID}

	poll, err := d.pending.Get(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			return ephemeral("This poll is no longer open.")
		}
		d.log.WithField("message", ref.String()).WithError(err).Error("failed to load pending poll")
		return ephemeral(fmt.Sprintf("An error was encountered during poll closure: `%s`", err))
	}

	closed, err := d.polls.Close(ctx, ports.ClosePollInput{Poll: poll, ActorID: actorID(i)})
	if err != nil {
		if errors.Is(err, domain.ErrPollClosed) {
			return ephemeral("This poll is already closed.")
		}
		if errors.Is(err, domain.ErrResultLost) {
			d.forget(ctx, ref)
		}
		return ephemeral(fmt.Sprintf("An error was encountered during poll closure: `%s`", err))
	}
	if closed.Status != domain.StatusClosed {
		return ephemeral("Only the poll creator can close this poll.")
	}

	d.forget(ctx, ref)
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
}

func (d *Dispatcher) forget(ctx context.Context, ref domain.MessageRef) {
	if err := d.pending.Delete(ctx, ref); err != nil {
		d.log.WithField("message", ref.String()).WithError(err).Warn("failed to forget closed poll")
	}
}

func actorID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func ephemeral(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}
