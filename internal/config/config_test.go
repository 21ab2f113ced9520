package config_test

import (
	"errors"
	"testing"

	"github.com/okian/pitcrew/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.StrictWinner, convey.ShouldBeFalse)
			convey.So(cfg.SeedBattles, convey.ShouldBeTrue)
			convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"*"})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given configs with unusable values", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":     func(c *config.Config) { c.Addr = "" },
			"zero queue":     func(c *config.Config) { c.QueueSize = 0 },
			"zero workers":   func(c *config.Config) { c.WorkerCount = 0 },
			"zero dedupe":    func(c *config.Config) { c.DedupeSize = -1 },
			"unknown level":  func(c *config.Config) { c.LogLevel = "chatty" },
			"unknown format": func(c *config.Config) { c.LogFormat = "xml" },
		}
		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then validation rejects "+name, func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
