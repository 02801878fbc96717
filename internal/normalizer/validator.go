package normalizer

import (
	"errors"

	"adscraper/internal/models"
)

// Validation errors.
var (
	ErrInvalidAdType = errors.New("invalid ad type: expected a JSON object")
	ErrMissingAdID   = errors.New("missing ad identifier (adId, creativeId or id)")
)

// adIDFields lists where an ad identifier may live, in order of preference.
var adIDFields = []string{"adId", "creativeId", "id"}

// Validator handles raw ad validation.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that a raw ad can be normalized and returns it as a field map.
func (v *Validator) Validate(rawAd any) (map[string]any, error) {
	ad, ok := asObject(rawAd)
	if !ok {
		return nil, ErrInvalidAdType
	}

	if models.FirstString(ad, adIDFields...) == "" {
		return nil, ErrMissingAdID
	}

	return ad, nil
}

func asObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return obj, obj != nil
	case models.Variation:
		return obj, obj != nil
	}

	return nil, false
}
