// Package normalizer turns raw advertiser ad records into the export schema.
package normalizer

import (
	"fmt"

	"adscraper/internal/logger"
	"adscraper/internal/models"
)

// Processor handles ad validation and transformation.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

// Process transforms one raw ad of advertiser into normalized format.
func (p *Processor) Process(advertiser models.Advertiser, rawAd any) (models.Ad, error) {
	// 1. Validate the input data
	fields, err := p.validator.Validate(rawAd)
	if err != nil {
		return models.Ad{}, fmt.Errorf("validation failed: %w", err)
	}

	// 2. Transform the data
	return p.transformer.Transform(advertiser, fields), nil
}

// ParseAdvertiserAds normalizes every raw ad of advertiser. Ads that fail
// validation are logged and skipped. The result is never nil.
func (p *Processor) ParseAdvertiserAds(advertiser models.Advertiser, rawAds []any, log *logger.Logger) []models.Ad {
	ads := make([]models.Ad, 0, len(rawAds))

	for i, raw := range rawAds {
		ad, err := p.Process(advertiser, raw)
		if err != nil {
			log.Warn("Skipping ad",
				"advertiser_id", advertiser.ID,
				"index", i,
				"error", err,
			)

			continue
		}

		ads = append(ads, ad)
	}

	return ads
}
