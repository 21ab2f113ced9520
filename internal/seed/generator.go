package seed

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/pitcrew/internal/domain/callout"
	"github.com/okian/pitcrew/internal/domain/model"
)

var (
	firstNames = []string{"Alex", "Sarah", "Mike", "Tom", "Nina", "Kenji", "Lena", "Omar", "Ruth", "Diego"}
	lastNames  = []string{"Smith", "Wilson", "Johnson", "Davis", "Kato", "Berg", "Haddad", "Silva", "Moreau", "Park"}
	teamNames  = []string{"Apex Hunters", "Smoke Signals", "Clipping Point", "Late Brakers", "Tandem Theory"}
	zeroRuns   = []string{callout.ZeroRunMechanical, callout.ZeroRunSpin, callout.ZeroRunCrash}
)

type contactInput struct {
	Name string           `json:"name"`
	Role model.MemberRole `json:"role"`
}

type teamInput struct {
	Name      string           `json:"name"`
	Type      model.TeamType   `json:"type"`
	Role      model.MemberRole `json:"role"`
	CreatorID string           `json:"creator_id"`
}

type memberInput struct {
	UserID string           `json:"user_id"`
	Role   model.MemberRole `json:"role"`
}

type battleInput struct {
	Driver  string `json:"driver"`
	Spotter string `json:"spotter"`
	Round   string `json:"round"`
}

type calloutInput struct {
	Sender   model.Role    `json:"sender"`
	QuickID  string        `json:"quick_id,omitempty"`
	Call     *callout.Call `json:"call,omitempty"`
	ZeroRun  string        `json:"zero_run,omitempty"`
	SenderID string        `json:"sender_id,omitempty"`
	ClientID string        `json:"client_id"`
}

func personName(i int) string {
	name := firstNames[i%len(firstNames)] + " " + lastNames[(i/len(firstNames))%len(lastNames)]
	if i >= len(firstNames)*len(lastNames) {
		name = fmt.Sprintf("%s %d", name, i)
	}
	return name
}

func generateContacts(n int) []contactInput {
	out := make([]contactInput, n)
	for i := range out {
		out[i] = contactInput{
			Name: personName(i),
			Role: model.MemberRoles[i%len(model.MemberRoles)],
		}
	}
	return out
}

func generateTeam(i int, creatorID string) teamInput {
	name := teamNames[i%len(teamNames)]
	if i >= len(teamNames) {
		name = fmt.Sprintf("%s %d", name, i/len(teamNames)+1)
	}
	typ := model.TeamAmateur
	if i%2 == 1 {
		typ = model.TeamPro
	}
	return teamInput{Name: name, Type: typ, Role: model.MemberDriver, CreatorID: creatorID}
}

// generateBattles spreads n battles over the bracket rounds, largest field first.
func generateBattles(n int) []battleInput {
	out := make([]battleInput, n)
	for i := range out {
		round := model.Rounds[min(i*len(model.Rounds)/max(n, 1), len(model.Rounds)-1)]
		out[i] = battleInput{
			Driver:  personName(2 * i),
			Spotter: personName(2*i + 1),
			Round:   string(round),
		}
	}
	return out
}

// generateCallout alternates spotter calls, zero runs and driver quick replies.
func generateCallout(i int, senderID string) calloutInput {
	in := calloutInput{SenderID: senderID, ClientID: uuid.NewString()}
	switch i % 3 {
	case 0:
		in.Sender = model.RoleSpotter
		in.Call = &callout.Call{
			Angle:     callValue(),
			Line:      callValue(),
			Proximity: callValue(),
			GiveMeA:   callValue(),
		}
	case 1:
		in.Sender = model.RoleDriver
		in.QuickID = callout.DriverQuickMessages[rand.IntN(len(callout.DriverQuickMessages))].ID
	default:
		in.Sender = model.RoleSpotter
		in.ZeroRun = zeroRuns[rand.IntN(len(zeroRuns))]
	}
	return in
}

func callValue() int {
	return callout.MinValue + rand.IntN(callout.MaxValue-callout.MinValue+1)
}
