package seed

import (
	"context"
	"fmt"

	"github.com/okian/pitcrew/pkg/logger"
)

// verifyResults reads back every seeded team and the bracket.
func verifyResults(ctx context.Context, client *Client, config *Config, teams []Team) error {
	log := logger.Named("seed")
	log.Info(ctx, "verifying results")

	for _, t := range teams {
		var got Team
		if err := client.Get(ctx, "/teams/"+t.ID, &got); err != nil {
			return err
		}
		// The creator is a member as well.
		if want := config.MembersPerTeam + 1; got.MemberCount != want {
			return fmt.Errorf("%w: team %s has %d members, want %d", ErrVerification, t.ID, got.MemberCount, want)
		}

		var msgs []Message
		if err := client.Get(ctx, "/teams/"+t.ID+"/messages", &msgs); err != nil {
			return err
		}
		if len(msgs) != config.Messages {
			return fmt.Errorf("%w: team %s has %d messages, want %d", ErrVerification, t.ID, len(msgs), config.Messages)
		}
		for _, m := range msgs {
			if m.TeamID != t.ID {
				return fmt.Errorf("%w: message %s leaked into team %s", ErrVerification, m.ID, t.ID)
			}
		}
	}

	var battles []Battle
	if err := client.Get(ctx, "/battles", &battles); err != nil {
		return err
	}
	if len(battles) < config.Battles {
		return fmt.Errorf("%w: found %d battles, want at least %d", ErrVerification, len(battles), config.Battles)
	}
	active := 0
	for _, b := range battles {
		if b.Status == "Active" {
			active++
		}
	}
	if active > 1 {
		return fmt.Errorf("%w: %d battles are active", ErrVerification, active)
	}

	log.Info(ctx, "result verification completed",
		logger.Int("teams", len(teams)),
		logger.Int("battles", len(battles)))
	return nil
}
