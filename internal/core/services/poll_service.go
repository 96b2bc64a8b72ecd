package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
	"github.com/vncsmyrnk/chatpoll/internal/core/tally"
)

type pollService struct {
	messenger ports.Messenger
	results   ports.PollResultRepository
	guard     ports.CloseGuard
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewPollService(messenger ports.Messenger, results ports.PollResultRepository, guard ports.CloseGuard, log logrus.FieldLogger) ports.PollService {
	return &pollService{
		messenger: messenger,
		results:   results,
		guard:     guard,
		log:       log.WithField("module", "polls"),
		now:       time.Now,
	}
}

func (s *pollService) Open(ctx context.Context, input ports.OpenPollInput) (*domain.Poll, error) {
	options, err := validateOpenInput(input)
	if err != nil {
		return nil, err
	}

	poll := &domain.Poll{
		CreatorID: input.CreatorID,
		Question:  input.Question,
		Options:   options,
		Status:    domain.StatusOpen,
		CreatedAt: s.now(),
	}

	body := domain.OpenPollBody(poll.CreatorID, poll.Question, poll.Options)
	ref, err := s.messenger.PostMessage(ctx, input.ChannelID, body)
	if err != nil {
		return nil, fmt.Errorf("failed to post poll message: %w", err)
	}
	poll.MessageRef = ref

	for _, marker := range domain.Markers() {
		if err := s.messenger.AddReaction(ctx, ref, marker); err != nil {
			s.log.WithFields(logrus.Fields{
				"message": ref.String(),
				"marker":  marker,
			}).WithError(err).Warn("failed to seed poll reaction")
		}
	}

	s.log.WithFields(logrus.Fields{
		"message": ref.String(),
		"creator": poll.CreatorID,
	}).Info("poll opened")

	return poll, nil
}

func (s *pollService) Close(ctx context.Context, input ports.ClosePollInput) (*domain.Poll, error) {
	poll := input.Poll
	if poll == nil {
		return nil, fmt.Errorf("%w: poll is required", domain.ErrValidation)
	}
	if poll.Status == domain.StatusClosed {
		return nil, domain.ErrPollClosed
	}

	log := s.log.WithFields(logrus.Fields{
		"message": poll.MessageRef.String(),
		"actor":   input.ActorID,
	})

	if input.ActorID != poll.CreatorID {
		log.Info("ignoring close request from someone other than the poll creator")
		return poll, nil
	}

	claimed, err := s.guard.Claim(ctx, poll.MessageRef)
	if err != nil {
		return nil, fmt.Errorf("failed to claim poll closure: %w", err)
	}
	if !claimed {
		log.Info("poll closure already in progress")
		return nil, domain.ErrPollClosed
	}

	reactions, err := s.messenger.ListReactions(ctx, poll.MessageRef)
	if err != nil {
		s.release(ctx, poll.MessageRef)
		return nil, fmt.Errorf("failed to read poll reactions: %w", err)
	}
	votes := tally.Count(reactions)

	body := domain.ClosedPollBody(poll.Question, poll.Options, votes)
	updated := true
	if err := s.messenger.UpdateMessage(ctx, poll.MessageRef, body); err != nil {
		updated = false
		log.WithError(err).Error("failed to update poll message with results")
	}

	closedAt := s.now()
	result := &domain.PollResult{
		ID:        uuid.New(),
		Creator:   poll.CreatorID,
		Question:  poll.Question,
		Responses: votes,
		ClosedAt:  closedAt,
	}
	if err := s.results.Save(ctx, result); err != nil {
		if !errors.Is(err, domain.ErrStore) {
			err = fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		if !updated {
			s.release(ctx, poll.MessageRef)
			return nil, fmt.Errorf("failed to save poll result: %w", err)
		}
		// The message already shows the results and no longer offers a close
		// button, so the claim stays and the poll cannot be closed again.
		log.WithFields(logrus.Fields{
			"question": poll.Question,
			"tally":    votes,
		}).WithError(err).Error("poll result lost")
		return nil, fmt.Errorf("failed to save poll result: %w: %w", domain.ErrResultLost, err)
	}

	log.WithField("result", result.ID).Info("poll closed")

	closed := *poll
	closed.ID = result.ID
	closed.Status = domain.StatusClosed
	closed.Tally = votes
	closed.ClosedAt = &closedAt
	return &closed, nil
}

func (s *pollService) release(ctx context.Context, ref domain.MessageRef) {
	if err := s.guard.Release(ctx, ref); err != nil {
		s.log.WithField("message", ref.String()).WithError(err).Warn("failed to release poll closure claim")
	}
}

func validateOpenInput(input ports.OpenPollInput) ([domain.OptionCount]string, error) {
	var options [domain.OptionCount]string

	if input.CreatorID == "" {
		return options, fmt.Errorf("%w: creator is required", domain.ErrValidation)
	}
	if input.ChannelID == "" {
		return options, fmt.Errorf("%w: channel is required", domain.ErrValidation)
	}
	if strings.TrimSpace(input.Question) == "" {
		return options, fmt.Errorf("%w: question is required", domain.ErrValidation)
	}
	if len(input.Options) != domain.OptionCount {
		return options, fmt.Errorf("%w: exactly %d options are required", domain.ErrValidation, domain.OptionCount)
	}
	for i, opt := range input.Options {
		if strings.TrimSpace(opt) == "" {
			return options, fmt.Errorf("%w: option %d is required", domain.ErrValidation, i+1)
		}
		options[i] = opt
	}

	return options, nil
}
