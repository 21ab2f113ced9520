package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/pitcrew/internal/adapters/repository"
	"github.com/okian/pitcrew/internal/domain/callout"
	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/internal/domain/types"
	"github.com/okian/pitcrew/pkg/logger"
	"github.com/okian/pitcrew/pkg/metrics"
)

// MessageInput is a message as submitted by a client. ClientID is optional;
// when set, a repeat with the same id for the same team is not appended.
type MessageInput struct {
	Text     string     `json:"text"`
	Sender   model.Role `json:"sender"`
	SenderID string     `json:"sender_id,omitempty"`
	ClientID string     `json:"client_id,omitempty"`
}

// CalloutRequest asks the composer for a canned text and sends it.
type CalloutRequest struct {
	callout.Input
	SenderID string `json:"sender_id,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

// Messages returns a team's messages in timestamp order.
func (s *Service) Messages(ctx context.Context, teamID string) ([]model.Message, error) {
	if !s.TeamExists(ctx, teamID) {
		return nil, repository.ErrTeamNotFound
	}
	return s.stores.Messages.TeamMessages(ctx, teamID), nil
}

// PostMessage appends a message to a team and queues it for live delivery.
func (s *Service) PostMessage(ctx context.Context, teamID string, in MessageInput) (types.Ack, error) {
	if strings.TrimSpace(in.Text) == "" {
		return types.Ack{}, ErrEmptyMessage
	}
	if !in.Sender.Valid() {
		return types.Ack{}, ErrInvalidRole
	}
	if !s.TeamExists(ctx, teamID) {
		return types.Ack{}, repository.ErrTeamNotFound
	}

	if in.ClientID != "" && s.deduper.SeenAndRecord(ctx, teamID+"/"+in.ClientID) {
		metrics.RecordMessageDuplicate()
		s.logger.Debug(ctx, "duplicate message skipped",
			logger.String("team_id", teamID),
			logger.String("client_id", in.ClientID),
		)
		return types.Ack{Status: "duplicate", Duplicate: true}, nil
	}

	start := time.Now()
	m := s.stores.Messages.Add(ctx, in.Text, in.Sender, in.SenderID, teamID)
	metrics.RecordMessageAppended()

	if !s.queue.Enqueue(ctx, m) {
		metrics.RecordFanoutDropped("queue_full")
		s.logger.Warn(ctx, "live delivery skipped", logger.String("message_id", m.ID))
	}
	metrics.RecordPublishLatency(float64(time.Since(start).Microseconds()) / 1000)

	return types.Ack{Status: "accepted", Message: &m}, nil
}

// QuickMessages returns the canned driver messages.
func (s *Service) QuickMessages() []callout.QuickMessage {
	return callout.DriverQuickMessages
}

// SendCallout composes a canned text for the sender role and posts it.
func (s *Service) SendCallout(ctx context.Context, teamID string, req CalloutRequest) (types.Ack, error) {
	text, err := s.composer.Compose(ctx, req.Input)
	if err != nil {
		metrics.RecordCalloutRejected(calloutReason(err))
		return types.Ack{}, fmt.Errorf("%w: %w", ErrInvalidCallout, err)
	}
	return s.PostMessage(ctx, teamID, MessageInput{
		Text:     text,
		Sender:   req.Sender,
		SenderID: req.SenderID,
		ClientID: req.ClientID,
	})
}

func calloutReason(err error) string {
	switch {
	case errors.Is(err, callout.ErrInvalidCall):
		return "invalid_call"
	case errors.Is(err, callout.ErrUnknownZeroRun):
		return "unknown_zero_run"
	case errors.Is(err, callout.ErrUnknownQuickMessage):
		return "unknown_quick_message"
	case errors.Is(err, callout.ErrDriverNeedsQuickMessage):
		return "driver_needs_quick_message"
	case errors.Is(err, callout.ErrSpotterQuickMessage):
		return "spotter_quick_message"
	case errors.Is(err, callout.ErrUnknownSender):
		return "unknown_sender"
	default:
		return "empty"
	}
}
