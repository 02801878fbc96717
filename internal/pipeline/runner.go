// Package pipeline runs fetch and normalization for every advertiser.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"adscraper/internal/crawler"
	"adscraper/internal/logger"
	"adscraper/internal/models"
	"adscraper/internal/normalizer"
)

// ErrAdvertiserPanic wraps a panic recovered while processing one advertiser.
var ErrAdvertiserPanic = errors.New("advertiser processing panicked")

// AdvertiserStats reports how one advertiser went.
type AdvertiserStats struct {
	ID       string
	Name     string
	Ads      int
	Duration time.Duration
	Err      error
}

// Result is the outcome of a run.
type Result struct {
	// Ads holds every normalized ad, grouped by advertiser in input order.
	Ads   []models.Ad
	Stats []AdvertiserStats
}

// Failed returns the number of advertisers that produced an error.
func (r *Result) Failed() int {
	n := 0

	for _, s := range r.Stats {
		if s.Err != nil {
			n++
		}
	}

	return n
}

// Runner processes advertisers with bounded parallelism.
type Runner struct {
	fetcher   crawler.Fetcher
	processor *normalizer.Processor
	workers   int
	log       *logger.Logger
}

// NewRunner creates a runner. workers below 1 is treated as 1.
func NewRunner(fetcher crawler.Fetcher, processor *normalizer.Processor, workers int, log *logger.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}

	return &Runner{
		fetcher:   fetcher,
		processor: processor,
		workers:   workers,
		log:       log,
	}
}

// Run processes all advertisers. A failing advertiser is logged and contributes
// no ads; it never stops the others. Once ctx is done no new advertiser starts.
func (r *Runner) Run(ctx context.Context, advertisers []models.Advertiser) Result {
	r.log.Info("Starting scrape",
		"advertisers", len(advertisers),
		"concurrency", r.workers,
	)

	perAdvertiser := make([][]models.Ad, len(advertisers))
	stats := make([]AdvertiserStats, len(advertisers))

	if r.workers <= 1 || len(advertisers) <= 1 {
		for i, adv := range advertisers {
			perAdvertiser[i], stats[i] = r.process(ctx, adv)
		}
	} else {
		r.runParallel(ctx, advertisers, perAdvertiser, stats)
	}

	total := 0
	for _, ads := range perAdvertiser {
		total += len(ads)
	}

	result := Result{Ads: make([]models.Ad, 0, total), Stats: stats}
	for _, ads := range perAdvertiser {
		result.Ads = append(result.Ads, ads...)
	}

	r.log.Info("Total normalized ads collected", "count", total, "failed_advertisers", result.Failed())

	return result
}

// runParallel fills the per-index slots; each goroutine writes only its own index.
func (r *Runner) runParallel(ctx context.Context, advertisers []models.Advertiser, perAdvertiser [][]models.Ad, stats []AdvertiserStats) {
	var wg sync.WaitGroup

	sem := make(chan struct{}, r.workers)

	for i, adv := range advertisers {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			stats[i] = cancelledStats(adv, ctx.Err())

			continue
		}

		wg.Add(1)

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			perAdvertiser[i], stats[i] = r.process(ctx, adv)
		}()
	}

	wg.Wait()
}

func (r *Runner) process(ctx context.Context, adv models.Advertiser) (ads []models.Ad, stats AdvertiserStats) {
	start := time.Now()
	stats = AdvertiserStats{ID: adv.ID, Name: adv.Name}
	log := r.log.With("advertiser_id", adv.ID, "advertiser_name", adv.Name)

	defer func() {
		if rec := recover(); rec != nil {
			ads = nil
			stats.Err = fmt.Errorf("%w: %v", ErrAdvertiserPanic, rec)
			log.Error("Error processing advertiser", "error", stats.Err)
		}

		stats.Ads = len(ads)
		stats.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		return nil, cancelledStats(adv, err)
	}

	log.Info("Processing advertiser")

	raw, err := r.fetcher.FetchAds(ctx, adv)
	if err != nil {
		stats.Err = fmt.Errorf("fetch ads: %w", err)
		log.Error("Error processing advertiser", "error", stats.Err)

		return nil, stats
	}

	ads = r.processor.ParseAdvertiserAds(adv, raw, log)
	log.Info("Parsed ads", "count", len(ads))

	return ads, stats
}

func cancelledStats(adv models.Advertiser, err error) AdvertiserStats {
	return AdvertiserStats{ID: adv.ID, Name: adv.Name, Err: err}
}
