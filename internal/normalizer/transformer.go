package normalizer

import (
	"strings"

	"github.com/google/uuid"

	"adscraper/internal/models"
)

// Ad format values assigned when the source does not carry one.
const (
	FormatVideo   = "video"
	FormatUnknown = "unknown"
)

// recordNamespace scopes deterministic record identifiers.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("adstransparency.google.com"))

// RecordID returns the deterministic identifier of an ad within an advertiser.
func RecordID(advertiserID, adID string) string {
	return uuid.NewSHA1(recordNamespace, []byte(advertiserID+"/"+adID)).String()
}

// Transformer maps validated raw ads onto models.Ad.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform converts a validated raw ad into a normalized ad.
func (t *Transformer) Transform(advertiser models.Advertiser, fields map[string]any) models.Ad {
	adID := models.FirstString(fields, adIDFields...)

	ad := models.Ad{
		RecordID:       RecordID(advertiser.ID, adID),
		AdvertiserID:   advertiser.ID,
		AdvertiserName: advertiser.Name,
		AdID:           adID,
		Format:         strings.ToLower(strings.TrimSpace(models.FirstString(fields, "format", "adFormat"))),
		FirstShown:     models.FirstString(fields, "firstShown", "firstShownDate"),
		LastShown:      models.FirstString(fields, "lastShown", "lastShownDate"),
		Regions:        t.regions(fields),
		Variations:     t.variations(fields),
	}

	if ad.Format == "" {
		ad.Format = FormatUnknown
		if len(ad.YouTubeIDs()) > 0 {
			ad.Format = FormatVideo
		}
	}

	return ad
}

func (t *Transformer) regions(fields map[string]any) []string {
	regions := []string{}

	if list, ok := fields["regions"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				regions = append(regions, strings.TrimSpace(s))
			}
		}

		return regions
	}

	if list, ok := fields["regions"].([]string); ok {
		for _, s := range list {
			if strings.TrimSpace(s) != "" {
				regions = append(regions, strings.TrimSpace(s))
			}
		}

		return regions
	}

	if region := strings.TrimSpace(models.FirstString(fields, "region")); region != "" {
		regions = append(regions, region)
	}

	return regions
}

// variations reconciles each variation object. An ad without a variations
// list is treated as a single implicit variation made of its own fields.
func (t *Transformer) variations(fields map[string]any) []models.Variation {
	list, ok := fields["variations"].([]any)
	if !ok {
		implicit := make(models.Variation, len(fields))
		for k, v := range fields {
			if k != "variations" {
				implicit[k] = v
			}
		}

		return []models.Variation{EnsureVideoMetadata(implicit)}
	}

	out := make([]models.Variation, 0, len(list))

	for _, item := range list {
		obj, ok := asObject(item)
		if !ok {
			continue
		}

		out = append(out, EnsureVideoMetadata(obj))
	}

	return out
}
