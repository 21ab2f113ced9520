package model_test

import (
	"testing"

	"github.com/okian/pitcrew/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRound(t *testing.T) {
	Convey("Given the bracket rounds", t, func() {
		Convey("Then ranks follow bracket order", func() {
			So(model.RoundTop64.Rank(), ShouldEqual, 1)
			So(model.RoundFinal.Rank(), ShouldEqual, len(model.Rounds))
			So(model.RoundTop32.Rank(), ShouldBeLessThan, model.RoundTop16.Rank())
			So(model.Round("Top 8").Rank(), ShouldEqual, 0)
			So(model.Round("Top 8").Valid(), ShouldBeFalse)
		})

		Convey("Then parsing ignores case and surrounding space", func() {
			r, ok := model.ParseRound("  great 8 ")
			So(ok, ShouldBeTrue)
			So(r, ShouldEqual, model.RoundGreat8)
			_, ok = model.ParseRound("quarterfinal")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRoles(t *testing.T) {
	Convey("Given the device roles", t, func() {
		Convey("Then each is the opposite of the other", func() {
			So(model.RoleDriver.Opposite(), ShouldEqual, model.RoleSpotter)
			So(model.RoleSpotter.Opposite(), ShouldEqual, model.RoleDriver)
			So(model.DefaultRole.Valid(), ShouldBeTrue)
			So(model.Role("crew").Valid(), ShouldBeFalse)
		})
	})

	Convey("Given roster roles", t, func() {
		Convey("Then empty input defaults to crew", func() {
			r, ok := model.ParseMemberRole(" ")
			So(ok, ShouldBeTrue)
			So(r, ShouldEqual, model.MemberCrew)
		})

		Convey("Then known roles parse case-insensitively", func() {
			r, ok := model.ParseMemberRole("Spotter")
			So(ok, ShouldBeTrue)
			So(r, ShouldEqual, model.MemberSpotter)
		})

		Convey("Then unknown roles are rejected", func() {
			_, ok := model.ParseMemberRole("pit boss")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given battle sides and team types", t, func() {
		Convey("Then only the known values are valid", func() {
			So(model.SideDriver.Valid(), ShouldBeTrue)
			So(model.Side("draw").Valid(), ShouldBeFalse)
			So(model.TeamPro.Valid(), ShouldBeTrue)
			So(model.TeamType("club").Valid(), ShouldBeFalse)
		})
	})

	Convey("Given a battle", t, func() {
		b := model.Battle{ID: "b1", Round: model.RoundFinal}

		Convey("Then it is completed once a winner is set", func() {
			So(b.Completed(), ShouldBeFalse)
			side := model.SideSpotter
			b.Winner = &side
			So(b.Completed(), ShouldBeTrue)
		})
	})
}
