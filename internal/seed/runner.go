// Package seed fills a running pitcrew service with demo data through its
// HTTP API and checks the service reports it back.
package seed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/pkg/logger"
)

// Defaults used by the seed command.
const (
	DefaultBaseURL        = "http://localhost:9080"
	DefaultContacts       = 12
	DefaultTeams          = 2
	DefaultMembersPerTeam = 3
	DefaultMessages       = 9
	DefaultBattles        = 6
	DefaultWorkers        = 4
	DefaultTimeout        = 10 * time.Second
)

// Validate checks the counts are consistent with each other.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	case c.Contacts < 1:
		return fmt.Errorf("%w: need at least one contact", ErrInvalidConfig)
	case c.Teams < 0 || c.Messages < 0 || c.Battles < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidConfig)
	case c.MembersPerTeam < 0 || c.MembersPerTeam >= c.Contacts:
		return fmt.Errorf("%w: members per team must be below the contact count", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	return nil
}

// Run seeds the service and verifies the result.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("seed")
	stats := &Stats{StartTime: time.Now()}
	client := NewClient(config.BaseURL, config.Timeout, config.Verbose)

	log.Info(ctx, "starting pitcrew seed",
		logger.String("baseURL", config.BaseURL),
		logger.Int("contacts", config.Contacts),
		logger.Int("teams", config.Teams),
		logger.Int("membersPerTeam", config.MembersPerTeam),
		logger.Int("messages", config.Messages),
		logger.Int("battles", config.Battles),
		logger.Int("workers", config.Workers))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Contacts
	contacts, err := createContacts(ctx, client, config, stats)
	if err != nil {
		return stats, fmt.Errorf("contact creation failed: %w", err)
	}

	// Step 3: Teams and their rosters
	teams, err := createTeams(ctx, client, config, contacts, stats)
	if err != nil {
		return stats, fmt.Errorf("team creation failed: %w", err)
	}
	if len(teams) > 0 {
		if err := client.Put(ctx, "/teams/active", map[string]string{"team_id": teams[0].ID}, nil); err != nil {
			return stats, fmt.Errorf("set active team failed: %w", err)
		}
	}

	// Step 4: Battles
	if err := createBattles(ctx, client, config, stats); err != nil {
		return stats, fmt.Errorf("battle creation failed: %w", err)
	}

	// Step 5: Team messages
	if err := sendCallouts(ctx, client, config, teams, stats); err != nil {
		return stats, fmt.Errorf("callout submission failed: %w", err)
	}

	// Step 6: Verify
	if err := verifyResults(ctx, client, config, teams); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

func checkServiceHealth(ctx context.Context, client *Client) error {
	return client.Get(ctx, "/healthz", nil)
}

func createContacts(ctx context.Context, client *Client, config *Config, stats *Stats) ([]Contact, error) {
	inputs := generateContacts(config.Contacts)
	out := make([]Contact, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			if _, err := client.Post(gctx, "/contacts", in, &out[i], http.StatusCreated); err != nil {
				return err
			}
			stats.ContactsCreated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// createTeams creates each team with a contact as creator and adds the
// following contacts as members.
func createTeams(ctx context.Context, client *Client, config *Config, contacts []Contact, stats *Stats) ([]Team, error) {
	teams := make([]Team, config.Teams)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for i := range teams {
		g.Go(func() error {
			creator := i % len(contacts)
			if _, err := client.Post(gctx, "/teams", generateTeam(i, contacts[creator].ID), &teams[i], http.StatusCreated); err != nil {
				return err
			}
			stats.TeamsCreated.Add(1)

			for j := 1; j <= config.MembersPerTeam; j++ {
				c := contacts[(creator+j)%len(contacts)]
				in := memberInput{UserID: c.ID, Role: model.MemberRole(c.Role)}
				if _, err := client.Post(gctx, "/teams/"+teams[i].ID+"/members", in, nil, http.StatusCreated); err != nil {
					return err
				}
				stats.MembersAdded.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return teams, nil
}

// createBattles posts sequentially so the bracket keeps generation order.
func createBattles(ctx context.Context, client *Client, config *Config, stats *Stats) error {
	for _, in := range generateBattles(config.Battles) {
		if _, err := client.Post(ctx, "/battles", in, nil, http.StatusCreated); err != nil {
			return err
		}
		stats.BattlesCreated.Add(1)
	}
	return nil
}

// sendCallouts posts the callouts of every team concurrently, then replays
// the first one per team to confirm the service recognises the client id.
func sendCallouts(ctx context.Context, client *Client, config *Config, teams []Team, stats *Stats) error {
	replays := make(map[string]calloutInput, len(teams))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for _, team := range teams {
		for i := range config.Messages {
			in := generateCallout(i, team.CreatedBy)
			if i == 0 {
				replays[team.ID] = in
			}
			g.Go(func() error {
				var ack Ack
				if _, err := client.Post(gctx, "/teams/"+team.ID+"/callouts", in, &ack, http.StatusAccepted); err != nil {
					return err
				}
				stats.MessagesSent.Add(1)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for teamID, in := range replays {
		var ack Ack
		if _, err := client.Post(ctx, "/teams/"+teamID+"/callouts", in, &ack, http.StatusOK); err != nil {
			return err
		}
		if !ack.Duplicate {
			return fmt.Errorf("%w: client id %s was accepted twice", ErrVerification, in.ClientID)
		}
		stats.Duplicates.Add(1)
	}
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "seed completed",
		logger.Int("contacts", int(stats.ContactsCreated.Load())),
		logger.Int("teams", int(stats.TeamsCreated.Load())),
		logger.Int("members", int(stats.MembersAdded.Load())),
		logger.Int("battles", int(stats.BattlesCreated.Load())),
		logger.Int("messages", int(stats.MessagesSent.Load())),
		logger.Int("duplicates", int(stats.Duplicates.Load())),
		logger.String("duration", stats.Duration.String()))
}
