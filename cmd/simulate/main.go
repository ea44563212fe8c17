package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/openpress/scorecard/internal/simdata"
	"github.com/openpress/scorecard/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	defaults := simdata.NewConfig()

	var (
		baseURL     = flag.String("url", defaults.BaseURL, "Base URL of the service")
		publishers  = flag.Int("publishers", defaults.Publishers, "Number of publishers to simulate")
		journals    = flag.Int("journals", defaults.JournalsPerPublisher, "Journals per publisher")
		submissions = flag.Int("submissions", defaults.Submissions, "Number of submissions to generate")
		reviewers   = flag.Int("reviewers", defaults.Reviewers, "Size of the reviewer pool")
		reviews     = flag.Int("reviews", defaults.Reviews, "Number of reviews to generate")
		workers     = flag.Int("workers", defaults.Workers, "Number of concurrent posting workers")
		timeout     = flag.Duration("timeout", defaults.Timeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simdata.Config{
		BaseURL:              *baseURL,
		Publishers:           *publishers,
		JournalsPerPublisher: *journals,
		Submissions:          *submissions,
		Reviewers:            *reviewers,
		Reviews:              *reviews,
		Workers:              *workers,
		Timeout:              *timeout,
	}

	if err := simdata.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		return
	}
}
