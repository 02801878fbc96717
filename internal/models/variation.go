package models

import (
	"encoding/json"
	"strconv"
)

// Variation field names.
const (
	FieldYouTubeMetadata = "youtubeMetadata"
	FieldAdID            = "adId"
	FieldYouTubeURL      = "youtubeUrl"
	FieldVideoURL        = "videoUrl"
	FieldURL             = "url"
	FieldCTAURL          = "ctaUrl"
	FieldCTA             = "cta"
)

// Variation is one creative variant of an ad, keyed by field name.
type Variation map[string]any

// VideoMetadata is the normalized YouTube sub-record of a variation.
// All three keys are always serialized, even when empty.
type VideoMetadata struct {
	AdID       string `json:"adId"`
	YouTubeURL string `json:"youtubeUrl"`
	CTAURL     string `json:"ctaUrl"`
}

// VideoMetadata returns the normalized metadata stored on the variation, if any.
func (v Variation) VideoMetadata() (VideoMetadata, bool) {
	switch meta := v[FieldYouTubeMetadata].(type) {
	case VideoMetadata:
		return meta, true
	case *VideoMetadata:
		if meta == nil {
			return VideoMetadata{}, false
		}

		return *meta, true
	case map[string]any:
		// decoded from an exported file
		return VideoMetadata{
			AdID:       FirstString(meta, FieldAdID),
			YouTubeURL: FirstString(meta, FieldYouTubeURL),
			CTAURL:     FirstString(meta, FieldCTAURL),
		}, true
	}

	return VideoMetadata{}, false
}

// Clone returns a shallow copy of the variation.
func (v Variation) Clone() Variation {
	out := make(Variation, len(v)+1)
	for k, val := range v {
		out[k] = val
	}

	return out
}

// Shape tells which reconciliation path a variation takes.
type Shape int

const (
	// ShapeLegacy means no structured metadata: only top-level URL hints exist.
	ShapeLegacy Shape = iota
	// ShapeStructured means youtubeMetadata holds a mapping.
	ShapeStructured
)

// String returns the shape name.
func (s Shape) String() string {
	if s == ShapeStructured {
		return "structured"
	}

	return "legacy"
}

// RawVariation is a variation whose shape has been decided once, at parse time.
type RawVariation struct {
	// Fields is the variation as received. It is never modified.
	Fields Variation
	// Nested holds the youtubeMetadata mapping when Shape is ShapeStructured.
	Nested map[string]any
	Shape  Shape
}

// ParseVariation classifies a variation by the type of its youtubeMetadata value.
// A mapping (including an already normalized VideoMetadata) selects ShapeStructured;
// a missing key or any other value selects ShapeLegacy.
func ParseVariation(fields Variation) RawVariation {
	raw := RawVariation{Fields: fields, Shape: ShapeLegacy}

	switch meta := fields[FieldYouTubeMetadata].(type) {
	case map[string]any:
		raw.Nested, raw.Shape = meta, ShapeStructured
	case Variation:
		raw.Nested, raw.Shape = meta, ShapeStructured
	case map[string]string:
		nested := make(map[string]any, len(meta))
		for k, val := range meta {
			nested[k] = val
		}

		raw.Nested, raw.Shape = nested, ShapeStructured
	default:
		if vm, ok := fields.VideoMetadata(); ok {
			raw.Nested, raw.Shape = vm.asMap(), ShapeStructured
		}
	}

	return raw
}

func (m VideoMetadata) asMap() map[string]any {
	return map[string]any{
		FieldAdID:       m.AdID,
		FieldYouTubeURL: m.YouTubeURL,
		FieldCTAURL:     m.CTAURL,
	}
}

// FirstString returns the first value among keys that renders to a non-empty string.
// Strings are taken as is, non-zero numbers are rendered in decimal and every
// other type counts as missing.
func FirstString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := asString(fields[key]); s != "" {
			return s
		}
	}

	return ""
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return ""
		}

		return val.String()
	case float64:
		if val == 0 {
			return ""
		}

		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		if val == 0 {
			return ""
		}

		return strconv.Itoa(val)
	case int64:
		if val == 0 {
			return ""
		}

		return strconv.FormatInt(val, 10)
	}

	return ""
}
