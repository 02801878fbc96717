package normalizer

import (
	"adscraper/internal/models"
	"adscraper/internal/youtube"
)

// EnsureVideoMetadata returns a copy of variation whose youtubeMetadata is a
// complete VideoMetadata record. The input is never modified.
func EnsureVideoMetadata(variation models.Variation) models.Variation {
	return Reconcile(models.ParseVariation(variation))
}

// Reconcile builds the normalized variation for an already classified input.
//
// Field precedence:
//   - structured: youtubeUrl > url, ctaUrl > cta, and an existing adId is kept
//     over one extracted from the URL;
//   - legacy: youtubeUrl > videoUrl > url, ctaUrl > cta, adId is extracted.
//
// The result is a shallow copy: only youtubeMetadata differs from the input.
func Reconcile(raw models.RawVariation) models.Variation {
	var meta models.VideoMetadata

	switch raw.Shape {
	case models.ShapeStructured:
		meta.YouTubeURL = models.FirstString(raw.Nested, models.FieldYouTubeURL, models.FieldURL)
		meta.CTAURL = models.FirstString(raw.Nested, models.FieldCTAURL, models.FieldCTA)
		meta.AdID = models.FirstString(raw.Nested, models.FieldAdID)
	default:
		meta.YouTubeURL = models.FirstString(raw.Fields, models.FieldYouTubeURL, models.FieldVideoURL, models.FieldURL)
		meta.CTAURL = models.FirstString(raw.Fields, models.FieldCTAURL, models.FieldCTA)
	}

	if meta.AdID == "" {
		meta.AdID, _ = youtube.ExtractVideoID(meta.YouTubeURL)
	}

	out := raw.Fields.Clone()
	out[models.FieldYouTubeMetadata] = meta

	return out
}
