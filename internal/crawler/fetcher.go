package crawler

import (
	"context"
	"time"

	"adscraper/internal/config"
	"adscraper/internal/logger"
	"adscraper/internal/models"
)

// PageSize is the number of ads the transparency center shows per page.
const PageSize = 40

// Fetcher returns the raw ads of one advertiser.
type Fetcher interface {
	FetchAds(ctx context.Context, advertiser models.Advertiser) ([]any, error)
}

// NewFetcher picks the fetcher for the configured mode. Any mode other than
// offline is served by the online placeholder.
func NewFetcher(cfg *config.Config, log *logger.Logger) Fetcher {
	offline := NewOfflineFetcher(cfg.MaxPages, log)
	if cfg.IsOffline() {
		return offline
	}

	return &OnlineFetcher{
		fallback: offline,
		timeout:  cfg.HTTP.GetTimeout(),
		log:      log,
	}
}

// OfflineFetcher serves the ads bundled with the advertiser definitions.
type OfflineFetcher struct {
	// MaxPages limits the ads to MaxPages*PageSize. Zero means unlimited.
	MaxPages int
	log      *logger.Logger
}

// NewOfflineFetcher creates an offline fetcher.
func NewOfflineFetcher(maxPages int, log *logger.Logger) *OfflineFetcher {
	return &OfflineFetcher{MaxPages: maxPages, log: log}
}

// FetchAds returns the bundled ads, truncated to simulate paging.
func (f *OfflineFetcher) FetchAds(ctx context.Context, advertiser models.Advertiser) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if advertiser.InvalidAdsType != "" {
		f.log.Warn("Advertiser has invalid 'ads' field; expected list",
			"advertiser_id", advertiser.ID,
			"got", advertiser.InvalidAdsType,
		)

		return []any{}, nil
	}

	ads := advertiser.Ads
	if f.MaxPages > 0 {
		if maxAds := PageSize * f.MaxPages; len(ads) > maxAds {
			ads = ads[:maxAds]
		}
	}

	f.log.Debug("Loaded offline ads",
		"advertiser_id", advertiser.ID,
		"count", len(ads),
	)

	return ads, nil
}

// OnlineFetcher is a placeholder for live scraping. It performs no network
// requests and serves offline data instead.
type OnlineFetcher struct {
	fallback *OfflineFetcher
	timeout  time.Duration
	log      *logger.Logger
}

// FetchAds logs the fallback and delegates to the offline fetcher.
func (f *OnlineFetcher) FetchAds(ctx context.Context, advertiser models.Advertiser) ([]any, error) {
	f.log.Warn("Online mode requested but not implemented; falling back to offline sample data",
		"advertiser_id", advertiser.ID,
		"http_timeout", f.timeout,
	)

	return f.fallback.FetchAds(ctx, advertiser)
}
