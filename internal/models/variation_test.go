package models

import (
	"encoding/json"
	"testing"
)

func TestParseVariation(t *testing.T) {
	tests := []struct {
		name   string
		fields Variation
		want   Shape
	}{
		{"no metadata", Variation{"youtubeUrl": "https://youtu.be/x"}, ShapeLegacy},
		{"metadata is a string", Variation{"youtubeMetadata": "junk"}, ShapeLegacy},
		{"metadata is nil", Variation{"youtubeMetadata": nil}, ShapeLegacy},
		{"metadata is a mapping", Variation{"youtubeMetadata": map[string]any{"url": "u"}}, ShapeStructured},
		{"metadata is a string mapping", Variation{"youtubeMetadata": map[string]string{"url": "u"}}, ShapeStructured},
		{"already normalized", Variation{"youtubeMetadata": VideoMetadata{AdID: "abc"}}, ShapeStructured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := ParseVariation(tt.fields)
			if raw.Shape != tt.want {
				t.Errorf("Shape = %s, want %s", raw.Shape, tt.want)
			}

			if tt.want == ShapeStructured && raw.Nested == nil {
				t.Error("structured variation has no nested mapping")
			}
		})
	}
}

func TestFirstString(t *testing.T) {
	fields := map[string]any{
		"empty":  "",
		"zero":   float64(0),
		"number": json.Number("12345"),
		"float":  float64(42),
		"list":   []any{"x"},
		"text":   "hello",
	}

	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"empty", "text"}, "hello"},
		{[]string{"zero", "list", "missing"}, ""},
		{[]string{"number", "text"}, "12345"},
		{[]string{"float"}, "42"},
	}

	for _, tt := range tests {
		if got := FirstString(fields, tt.keys...); got != tt.want {
			t.Errorf("FirstString(%v) = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestVideoMetadataFromDecodedJSON(t *testing.T) {
	var ad Ad
	if err := json.Unmarshal([]byte(`{"variations":[{"youtubeMetadata":{"adId":"abc","youtubeUrl":"u","ctaUrl":""}}]}`), &ad); err != nil {
		t.Fatal(err)
	}

	meta, ok := ad.Variations[0].VideoMetadata()
	if !ok || meta.AdID != "abc" || meta.YouTubeURL != "u" {
		t.Errorf("VideoMetadata = %+v, %v", meta, ok)
	}

	if ids := ad.YouTubeIDs(); len(ids) != 1 || ids[0] != "abc" {
		t.Errorf("YouTubeIDs = %v", ids)
	}
}
