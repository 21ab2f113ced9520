package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	repository "github.com/okian/pitcrew/internal/adapters/repository"
	"github.com/okian/pitcrew/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// countRows checks the member count invariant for a team.
func countRows(ctx context.Context, s *repository.TeamStore, teamID string) (stored, rows int) {
	team, err := s.Team(ctx, teamID)
	So(err, ShouldBeNil)
	return team.MemberCount, len(s.Members(ctx, teamID))
}

func TestTeamStore(t *testing.T) {
	Convey("Given a roster with one team", t, func() {
		ctx := context.Background()
		s := repository.NewTeamStore(testOpts()...)
		team, ok := s.AddTeam(ctx, "Night Shift", model.TeamPro, model.MemberSpotter, "user-1")
		So(ok, ShouldBeTrue)

		Convey("Then the creator is the only member", func() {
			members := s.Members(ctx, team.ID)
			So(members, ShouldHaveLength, 1)
			So(members[0].UserID, ShouldEqual, "user-1")
			So(members[0].Role, ShouldEqual, model.MemberSpotter)
			So(team.MemberCount, ShouldEqual, 1)
			So(team.Role, ShouldEqual, "spotter")
			So(team.CreatedBy, ShouldEqual, "user-1")
		})

		Convey("When members are added and removed", func() {
			_, err := s.AddMember(ctx, team.ID, "user-2", model.MemberDriver)
			So(err, ShouldBeNil)
			stored, rows := countRows(ctx, s, team.ID)
			So(stored, ShouldEqual, 2)
			So(rows, ShouldEqual, 2)

			_, err = s.AddMember(ctx, team.ID, "user-3", model.MemberCrew)
			So(err, ShouldBeNil)
			s.RemoveMember(ctx, team.ID, "user-2")

			Convey("Then the count tracks the rows after every mutation", func() {
				stored, rows := countRows(ctx, s, team.ID)
				So(stored, ShouldEqual, 2)
				So(rows, ShouldEqual, 2)
			})
		})

		Convey("When the same user is enrolled twice", func() {
			_, _ = s.AddMember(ctx, team.ID, "user-2", model.MemberCrew)
			_, _ = s.AddMember(ctx, team.ID, "user-2", model.MemberCrew)

			Convey("Then both rows count, and one removal clears both", func() {
				stored, _ := countRows(ctx, s, team.ID)
				So(stored, ShouldEqual, 3)
				s.RemoveMember(ctx, team.ID, "user-2")
				stored, _ = countRows(ctx, s, team.ID)
				So(stored, ShouldEqual, 1)
			})
		})

		Convey("When enrolling in an unknown team", func() {
			_, err := s.AddMember(ctx, "nope", "user-2", model.MemberCrew)

			Convey("Then it reports the team as missing", func() {
				So(err, ShouldEqual, repository.ErrTeamNotFound)
			})
		})

		Convey("When the team is the active selection", func() {
			So(s.SetActiveTeam(ctx, team.ID), ShouldBeNil)
			_, _ = s.AddMember(ctx, team.ID, "user-2", model.MemberDriver)

			Convey("Then the active team reflects the new count", func() {
				active, ok := s.ActiveTeam(ctx)
				So(ok, ShouldBeTrue)
				So(active.MemberCount, ShouldEqual, 2)
			})

			Convey("And removing the team clears the selection and its members", func() {
				s.RemoveTeam(ctx, team.ID)
				_, ok := s.ActiveTeam(ctx)
				So(ok, ShouldBeFalse)
				So(s.Members(ctx, team.ID), ShouldBeEmpty)
				_, err := s.Team(ctx, team.ID)
				So(err, ShouldEqual, repository.ErrTeamNotFound)
			})

			Convey("And clearing the selection with an empty id works", func() {
				So(s.SetActiveTeam(ctx, ""), ShouldBeNil)
				_, ok := s.ActiveTeam(ctx)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When selecting an unknown team", func() {
			So(s.SetActiveTeam(ctx, "missing"), ShouldEqual, repository.ErrTeamNotFound)
		})

		Convey("When removing another team", func() {
			other, _ := s.AddTeam(ctx, "Day Shift", model.TeamAmateur, model.MemberDriver, "user-9")
			So(s.SetActiveTeam(ctx, team.ID), ShouldBeNil)
			s.RemoveTeam(ctx, other.ID)

			Convey("Then the active selection is kept", func() {
				active, ok := s.ActiveTeam(ctx)
				So(ok, ShouldBeTrue)
				So(active.ID, ShouldEqual, team.ID)
				So(s.Teams(ctx), ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a blank team name", t, func() {
		ctx := context.Background()
		s := repository.NewTeamStore(testOpts()...)
		_, ok := s.AddTeam(ctx, "  ", model.TeamPro, model.MemberCrew, "user-1")

		Convey("Then nothing is created", func() {
			So(ok, ShouldBeFalse)
			teams, members := s.Counts(ctx)
			So(teams, ShouldEqual, 0)
			So(members, ShouldEqual, 0)
		})
	})
}

func TestTeamStoreConcurrency(t *testing.T) {
	Convey("Given concurrent membership changes", t, func() {
		ctx := context.Background()
		s := repository.NewTeamStore(testOpts()...)
		team, _ := s.AddTeam(ctx, "Crew", model.TeamPro, model.MemberDriver, "owner")

		var wg sync.WaitGroup
		for i := 0; i < 40; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				user := fmt.Sprintf("user-%d", i)
				_, _ = s.AddMember(ctx, team.ID, user, model.MemberCrew)
				if i%2 == 0 {
					s.RemoveMember(ctx, team.ID, user)
				}
			}(i)
		}
		wg.Wait()

		Convey("Then the count equals the surviving rows", func() {
			stored, rows := countRows(ctx, s, team.ID)
			So(rows, ShouldEqual, 21)
			So(stored, ShouldEqual, rows)
		})
	})
}
