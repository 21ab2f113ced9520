// Package callout turns the canned driver and spotter inputs into message text.
package callout

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/pitcrew/internal/domain/model"
)

// Bounds for every field of a spotter call.
const (
	MinValue = 1
	MaxValue = 5
)

// QuickMessage is a canned driver reply.
type QuickMessage struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// DriverQuickMessages are the replies a driver can pick from.
var DriverQuickMessages = []QuickMessage{
	{ID: "1", Text: "Ready"},
	{ID: "2", Text: "Need a minute"},
	{ID: "3", Text: "Understood"},
	{ID: "4", Text: "Elaborate"},
	{ID: "5", Text: "Water temp high"},
	{ID: "6", Text: "Low oil pressure"},
	{ID: "7", Text: "Need tires"},
	{ID: "8", Text: "Coming back to pit"},
}

// Call is a structured spotter call; each value runs from 1 to 5.
type Call struct {
	Angle     int `json:"angle"`
	Line      int `json:"line"`
	Proximity int `json:"proximity"`
	GiveMeA   int `json:"give_me_a"`
}

// Validate checks every field is within bounds.
func (c Call) Validate() error {
	fields := []struct {
		name string
		v    int
	}{
		{"angle", c.Angle},
		{"line", c.Line},
		{"proximity", c.Proximity},
		{"give_me_a", c.GiveMeA},
	}
	for _, f := range fields {
		if f.v < MinValue || f.v > MaxValue {
			return fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidCall, f.name, MinValue, MaxValue)
		}
	}
	return nil
}

// Compose renders the call as the multi-line text shown to the driver.
func (c Call) Compose() string {
	return strings.Join([]string{
		fmt.Sprintf("Angle: %d", c.Angle),
		fmt.Sprintf("Line: %d", c.Line),
		fmt.Sprintf("Proximity: %d", c.Proximity),
		fmt.Sprintf("Give me a: %d", c.GiveMeA),
	}, "\n")
}

// ZeroRun reasons reported when the chase car could not complete the run.
const (
	ZeroRunMechanical = "mechanical"
	ZeroRunSpin       = "spin"
	ZeroRunCrash      = "crash"
)

var zeroRunText = map[string]string{
	ZeroRunMechanical: "Chase car mechanical failure",
	ZeroRunSpin:       "Chase car spin",
	ZeroRunCrash:      "Chase car crashed",
}

// ZeroRun returns the text for a zero-run reason.
func ZeroRun(reason string) (string, error) {
	text, ok := zeroRunText[strings.ToLower(strings.TrimSpace(reason))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownZeroRun, reason)
	}
	return text, nil
}

// Input is everything a sender may submit. Exactly which field is used
// depends on the sender role.
type Input struct {
	Sender  model.Role `json:"sender"`
	QuickID string     `json:"quick_id,omitempty"`
	Call    *Call      `json:"call,omitempty"`
	ZeroRun string     `json:"zero_run,omitempty"`
	Custom  string     `json:"custom,omitempty"`
}

// Composer resolves an Input into message text.
type Composer interface {
	Compose(ctx context.Context, in Input) (string, error)
}

// Option applies a configuration option to the CannedComposer.
type Option func(*CannedComposer)

// WithQuickMessages replaces the driver quick messages.
func WithQuickMessages(msgs []QuickMessage) Option {
	return func(c *CannedComposer) {
		if len(msgs) > 0 {
			c.quick = make(map[string]string, len(msgs))
			for _, m := range msgs {
				c.quick[m.ID] = m.Text
			}
		}
	}
}

// CannedComposer implements Composer over the fixed canned texts.
type CannedComposer struct {
	quick map[string]string
}

// NewCannedComposer creates a composer with the default driver quick messages.
func NewCannedComposer(opts ...Option) *CannedComposer {
	c := &CannedComposer{}
	WithQuickMessages(DriverQuickMessages)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose picks the message text. A driver may only send a quick message.
// A spotter sends, in priority order, a zero-run reason, custom text, or a
// full call.
func (c *CannedComposer) Compose(_ context.Context, in Input) (string, error) {
	switch in.Sender {
	case model.RoleDriver:
		if in.QuickID == "" {
			return "", ErrDriverNeedsQuickMessage
		}
		text, ok := c.quick[in.QuickID]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownQuickMessage, in.QuickID)
		}
		return text, nil
	case model.RoleSpotter:
		if in.QuickID != "" {
			return "", ErrSpotterQuickMessage
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSender, in.Sender)
	}

	if in.ZeroRun != "" {
		return ZeroRun(in.ZeroRun)
	}
	if custom := strings.TrimSpace(in.Custom); custom != "" {
		return custom, nil
	}
	if in.Call == nil {
		return "", ErrEmptyCallout
	}
	if err := in.Call.Validate(); err != nil {
		return "", err
	}
	return in.Call.Compose(), nil
}
