package simdata

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openpress/scorecard/pkg/logger"
)

const settleDelay = 2 * time.Second

// Run generates synthetic traffic, posts it to the service, and fetches
// the resulting KPI reports for each publisher.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get()

	log.Info(ctx, "starting scorecard simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("publishers", cfg.Publishers),
		logger.Int("submissions", cfg.Submissions),
		logger.Int("reviews", cfg.Reviews),
		logger.Int("workers", cfg.Workers))

	if err := checkServiceHealth(ctx, cfg); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	w := buildWorld(cfg)
	submissions := generateSubmissions(cfg, w)
	reviews := generateReviews(cfg, w)

	stats := &Stats{}
	start := time.Now()

	if err := postSubmissions(ctx, cfg, submissions, stats); err != nil {
		return fmt.Errorf("submission posting failed: %w", err)
	}
	if err := postReviews(ctx, cfg, reviews, stats); err != nil {
		return fmt.Errorf("review posting failed: %w", err)
	}

	log.Info(ctx, "waiting for ingestion to settle")
	time.Sleep(settleDelay)

	if err := fetchReports(ctx, cfg, w); err != nil {
		return fmt.Errorf("report retrieval failed: %w", err)
	}

	log.Info(ctx, "simulation completed",
		logger.Int("submissionsSent", stats.SubmissionsSent),
		logger.Int("reviewsSent", stats.ReviewsSent),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("failures", stats.Failures),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// checkServiceHealth verifies the service is reachable before posting.
func checkServiceHealth(ctx context.Context, cfg *Config) error {
	client := newHTTPClient(cfg.Timeout)
	resp, err := client.Get(ctx, cfg.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

func postSubmissions(ctx context.Context, cfg *Config, payloads []submissionPayload, stats *Stats) error {
	items := make([]any, len(payloads))
	for i := range payloads {
		items[i] = payloads[i]
	}
	sent, dup, fail := postAll(ctx, cfg, cfg.BaseURL+"/submissions", items)
	stats.SubmissionsSent += sent
	stats.Duplicates += dup
	stats.Failures += fail
	return ctx.Err()
}

func postReviews(ctx context.Context, cfg *Config, payloads []reviewPayload, stats *Stats) error {
	items := make([]any, len(payloads))
	for i := range payloads {
		items[i] = payloads[i]
	}
	sent, dup, fail := postAll(ctx, cfg, cfg.BaseURL+"/reviews", items)
	stats.ReviewsSent += sent
	stats.Duplicates += dup
	stats.Failures += fail
	return ctx.Err()
}

// postAll posts payloads concurrently with a bounded worker pool.
func postAll(ctx context.Context, cfg *Config, url string, items []any) (sent, duplicates, failures int) {
	client := newHTTPClient(cfg.Timeout)

	var (
		sentCount int64
		dupCount  int64
		failCount int64
	)

	itemChan := make(chan any, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				switch postPayload(ctx, client, url, item) {
				case resultAccepted:
					atomic.AddInt64(&sentCount, 1)
				case resultDuplicate:
					atomic.AddInt64(&dupCount, 1)
				case resultFailed:
					atomic.AddInt64(&failCount, 1)
				}
			}
		}()
	}

	go func() {
		defer close(itemChan)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case itemChan <- item:
			}
		}
	}()

	wg.Wait()
	return int(atomic.LoadInt64(&sentCount)), int(atomic.LoadInt64(&dupCount)), int(atomic.LoadInt64(&failCount))
}

// fetchReports pulls the KPI and reviewer reports for every publisher and
// logs a short digest of each.
func fetchReports(ctx context.Context, cfg *Config, w *world) error {
	log := logger.Get()
	client := newHTTPClient(cfg.Timeout)

	for _, pubID := range w.publishers {
		kpis, err := fetchJSON(ctx, client, cfg.BaseURL+"/kpis?publisher_id="+pubID)
		if err != nil {
			return fmt.Errorf("failed to fetch kpis for %s: %w", pubID, err)
		}
		log.Info(ctx, "publisher KPI report",
			logger.String("publisherID", pubID),
			logger.Any("totalProcessed", kpis["total_processed"]),
			logger.Any("averageProcessingDays", kpis["average_processing_days"]),
			logger.Any("acceptanceRate", kpis["acceptance_rate"]),
			logger.Any("grade", kpis["grade"]))

		reviewers, err := fetchJSON(ctx, client, cfg.BaseURL+"/reviewers?publisher_id="+pubID)
		if err != nil {
			return fmt.Errorf("failed to fetch reviewer report for %s: %w", pubID, err)
		}
		overall, _ := reviewers["overall"].([]any)
		log.Info(ctx, "publisher reviewer report",
			logger.String("publisherID", pubID),
			logger.Int("rankedReviewers", len(overall)))
	}
	return nil
}

func fetchJSON(ctx context.Context, client *httpClient, url string) (map[string]any, error) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var out map[string]any
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}
