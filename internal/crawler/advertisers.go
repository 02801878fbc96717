// Package crawler loads advertiser definitions and fetches their raw ads.
package crawler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"adscraper/internal/logger"
	"adscraper/internal/models"
)

// Advertiser file errors.
var (
	ErrAdvertisersNotFound      = errors.New("advertisers file not found")
	ErrInvalidAdvertisersFormat = errors.New("invalid advertisers file format: 'advertisers' must be a list")
)

// LoadAdvertisers reads the advertisers sample file and returns the usable
// entries. Entries that are not objects are dropped; entries without an
// advertiserId are dropped with a warning.
func LoadAdvertisers(path string, log *logger.Logger) ([]models.Advertiser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAdvertisersNotFound, path)
		}

		return nil, fmt.Errorf("failed to read advertisers file: %w", err)
	}

	return ParseAdvertisers(data, log)
}

// ParseAdvertisers decodes an advertisers document: {"advertisers": [...]}.
func ParseAdvertisers(data []byte, log *logger.Logger) ([]models.Advertiser, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse advertisers JSON: %w", err)
	}

	root, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrInvalidAdvertisersFormat
	}

	entries, ok := root["advertisers"].([]any)
	if !ok {
		return nil, ErrInvalidAdvertisersFormat
	}

	advertisers := make([]models.Advertiser, 0, len(entries))

	for _, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		id := models.FirstString(item, "advertiserId")
		if id == "" {
			log.Warn("Skipping advertiser entry without advertiserId", "entry", item)

			continue
		}

		advertisers = append(advertisers, newAdvertiser(id, item))
	}

	return advertisers, nil
}

func newAdvertiser(id string, item map[string]any) models.Advertiser {
	adv := models.Advertiser{ID: id, Name: models.DefaultAdvertiserName}

	// an explicit but empty name is kept
	if _, ok := item["advertiserName"]; ok {
		adv.Name = models.FirstString(item, "advertiserName")
	}

	switch ads := item["ads"].(type) {
	case nil:
	case string:
		if ads != "" {
			adv.InvalidAdsType = "string"
		}
	case []any:
		adv.Ads = ads
	default:
		adv.InvalidAdsType = jsonType(ads)
	}

	return adv
}

func jsonType(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	}

	return fmt.Sprintf("%T", v)
}
