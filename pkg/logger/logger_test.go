package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := InitWithWriter(&bytes.Buffer{}, "xml")

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf, "json"), ShouldBeNil)
		ctx := context.Background()

		Convey("When a named logger writes a field", func() {
			Named("teams").Info(ctx, "team created", String("team_id", "t1"), Int("members", 1))

			Convey("Then the line carries the fields, component and source", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "team created")
				So(line["team_id"], ShouldEqual, "t1")
				So(line["component"], ShouldEqual, "teams")
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("WARN"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then info lines are dropped", func() {
				So(strings.Contains(buf.String(), "hidden"), ShouldBeFalse)
				So(strings.Contains(buf.String(), "shown"), ShouldBeTrue)
			})
		})

		Convey("When an unknown level is set", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
