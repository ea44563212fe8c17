package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openpress/scorecard/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad_Defaults(t *testing.T) {
	Convey("Given no configuration sources", t, func() {
		ctx := context.Background()

		Convey("When loading", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults are returned", func() {
				So(err, ShouldBeNil)
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.Addr, ShouldEqual, ":9090")
				So(cfg.QueueSize, ShouldEqual, 100_000)
				So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
				So(cfg.DedupeSize, ShouldEqual, 500_000)
				So(cfg.RefreshInterval, ShouldEqual, 30*time.Second)
				So(cfg.MinReviewerSample, ShouldEqual, 3)
				So(cfg.BenchmarkProcessingDays, ShouldEqual, 90)
				So(cfg.BenchmarkAcceptanceRate, ShouldEqual, 25)
				So(cfg.VarianceAlertThreshold, ShouldEqual, 1000)
			})
		})
	})
}

func TestLoad_Env(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		ctx := context.Background()
		t.Setenv("SCORECARD_ADDR", ":8088")
		t.Setenv("SCORECARD_QUEUE_SIZE", "512")
		t.Setenv("SCORECARD_LOG_LEVEL", "debug")
		t.Setenv("SCORECARD_REFRESH_INTERVAL", "90s")
		t.Setenv("SCORECARD_MIN_REVIEWER_SAMPLE", "5")

		Convey("When loading", func() {
			cfg, err := config.Load(ctx)

			Convey("Then env values win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8088")
				So(cfg.QueueSize, ShouldEqual, 512)
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.RefreshInterval, ShouldEqual, 90*time.Second)
				So(cfg.MinReviewerSample, ShouldEqual, 5)
			})

			Convey("And untouched keys keep their defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.DedupeSize, ShouldEqual, 500_000)
				So(cfg.BenchmarkProcessingDays, ShouldEqual, 90)
			})
		})
	})
}

func TestLoad_File(t *testing.T) {
	Convey("Given a YAML configuration file", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "scorecard.yaml")
		yaml := []byte("addr: \":7070\"\nworker_count: 2\nbenchmark_processing_days: 75\n")
		So(os.WriteFile(path, yaml, 0o600), ShouldBeNil)
		t.Setenv("SCORECARD_CONFIG", path)

		Convey("When loading", func() {
			cfg, err := config.Load(ctx)

			Convey("Then file values override defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.WorkerCount, ShouldEqual, 2)
				So(cfg.BenchmarkProcessingDays, ShouldEqual, 75)
			})
		})

		Convey("When an env var overrides the same key", func() {
			t.Setenv("SCORECARD_ADDR", ":6060")
			cfg, err := config.Load(ctx)

			Convey("Then env wins over file", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.WorkerCount, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a missing configuration file", t, func() {
		ctx := context.Background()
		t.Setenv("SCORECARD_CONFIG", "/nonexistent/scorecard.yaml")

		Convey("When loading", func() {
			_, err := config.Load(ctx)

			Convey("Then loading fails with a load error", func() {
				So(err, ShouldWrap, config.ErrLoadConfig)
			})
		})
	})
}

func TestLoad_Validation(t *testing.T) {
	Convey("Given invalid overrides", t, func() {
		ctx := context.Background()

		Convey("When the queue size is zero", func() {
			t.Setenv("SCORECARD_QUEUE_SIZE", "0")
			_, err := config.Load(ctx)
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})

		Convey("When the worker count is negative", func() {
			t.Setenv("SCORECARD_WORKER_COUNT", "-1")
			_, err := config.Load(ctx)
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})

		Convey("When the refresh interval is zero", func() {
			t.Setenv("SCORECARD_REFRESH_INTERVAL", "0s")
			_, err := config.Load(ctx)
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})

		Convey("When the sample floor is zero", func() {
			t.Setenv("SCORECARD_MIN_REVIEWER_SAMPLE", "0")
			_, err := config.Load(ctx)
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})
	})
}
