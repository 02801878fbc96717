package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"adscraper/internal/crawler"
	"adscraper/internal/logger"
	"adscraper/internal/models"
	"adscraper/internal/normalizer"
)

var errFetch = errors.New("fetch exploded")

// fakeFetcher returns canned ads, errors or panics per advertiser ID.
type fakeFetcher struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration

	mu    sync.Mutex
	calls []string
}

func (f *fakeFetcher) FetchAds(ctx context.Context, adv models.Advertiser) ([]any, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, adv.ID)
	f.mu.Unlock()

	time.Sleep(f.delay)

	switch {
	case strings.HasPrefix(adv.ID, "err"):
		return nil, errFetch
	case strings.HasPrefix(adv.ID, "panic"):
		panic("boom")
	}

	return adv.Ads, nil
}

var _ crawler.Fetcher = (*fakeFetcher)(nil)

func advertiser(id string, ads int) models.Advertiser {
	raw := make([]any, ads)
	for i := range raw {
		raw[i] = map[string]any{
			"adId":       fmt.Sprintf("%s-ad%d", id, i),
			"youtubeUrl": fmt.Sprintf("https://youtu.be/%s%d", id, i),
		}
	}

	return models.Advertiser{ID: id, Name: "Name " + id, Ads: raw}
}

func adIDs(ads []models.Ad) string {
	ids := make([]string, len(ads))
	for i, ad := range ads {
		ids[i] = ad.AdID
	}

	return strings.Join(ids, ",")
}

func TestRunner_Sequential(t *testing.T) {
	fetcher := &fakeFetcher{}
	runner := NewRunner(fetcher, normalizer.NewProcessor(), 1, nil)

	result := runner.Run(context.Background(), []models.Advertiser{advertiser("a", 2), advertiser("b", 1)})

	if got := adIDs(result.Ads); got != "a-ad0,a-ad1,b-ad0" {
		t.Errorf("ads = %s, want a-ad0,a-ad1,b-ad0", got)
	}

	if fetcher.maxSeen.Load() != 1 {
		t.Errorf("max in flight = %d, want 1", fetcher.maxSeen.Load())
	}

	if result.Stats[0].Ads != 2 || result.Stats[1].Ads != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
}

func TestRunner_ParallelKeepsInputOrder(t *testing.T) {
	fetcher := &fakeFetcher{delay: 20 * time.Millisecond}
	runner := NewRunner(fetcher, normalizer.NewProcessor(), 3, nil)

	var advertisers []models.Advertiser
	for i := range 9 {
		advertisers = append(advertisers, advertiser(fmt.Sprintf("adv%d", i), 1))
	}

	result := runner.Run(context.Background(), advertisers)

	var want []string
	for i := range 9 {
		want = append(want, fmt.Sprintf("adv%d-ad0", i))
	}

	if got := adIDs(result.Ads); got != strings.Join(want, ",") {
		t.Errorf("ads = %s, want input order", got)
	}

	if maxSeen := fetcher.maxSeen.Load(); maxSeen > 3 {
		t.Errorf("max in flight = %d, want <= 3", maxSeen)
	}

	if meta, ok := result.Ads[4].Variations[0].VideoMetadata(); !ok || meta.AdID != "adv40" {
		t.Errorf("variation metadata = %+v, want adId adv40", meta)
	}
}

func TestRunner_IsolatesFailures(t *testing.T) {
	var buf bytes.Buffer

	log := logger.New(&buf, "info", true)
	runner := NewRunner(&fakeFetcher{}, normalizer.NewProcessor(), 4, log)

	result := runner.Run(context.Background(), []models.Advertiser{
		advertiser("ok1", 1),
		advertiser("err1", 1),
		advertiser("panic1", 1),
		advertiser("ok2", 2),
	})

	if got := adIDs(result.Ads); got != "ok1-ad0,ok2-ad0,ok2-ad1" {
		t.Errorf("ads = %s", got)
	}

	if result.Failed() != 2 {
		t.Errorf("Failed() = %d, want 2", result.Failed())
	}

	if !errors.Is(result.Stats[1].Err, errFetch) {
		t.Errorf("stats[1].Err = %v, want errFetch", result.Stats[1].Err)
	}

	if !errors.Is(result.Stats[2].Err, ErrAdvertiserPanic) {
		t.Errorf("stats[2].Err = %v, want ErrAdvertiserPanic", result.Stats[2].Err)
	}

	if result.Stats[2].Ads != 0 {
		t.Errorf("panicking advertiser reported %d ads", result.Stats[2].Ads)
	}

	if !strings.Contains(buf.String(), "Error processing advertiser") {
		t.Errorf("expected error log, got %q", buf.String())
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{}

	for _, workers := range []int{1, 4} {
		result := NewRunner(fetcher, normalizer.NewProcessor(), workers, nil).Run(ctx, []models.Advertiser{
			advertiser("a", 1),
			advertiser("b", 1),
		})

		if len(result.Ads) != 0 {
			t.Errorf("workers=%d: got %d ads after cancel", workers, len(result.Ads))
		}

		for _, s := range result.Stats {
			if !errors.Is(s.Err, context.Canceled) {
				t.Errorf("workers=%d: stats err = %v, want context.Canceled", workers, s.Err)
			}
		}
	}

	if len(fetcher.calls) != 0 {
		t.Errorf("fetcher called %v after cancel", fetcher.calls)
	}
}

func TestRunner_EmptyInput(t *testing.T) {
	result := NewRunner(&fakeFetcher{}, normalizer.NewProcessor(), 0, nil).Run(context.Background(), nil)
	if result.Ads == nil || len(result.Ads) != 0 {
		t.Errorf("Ads = %#v, want empty non-nil slice", result.Ads)
	}
}
