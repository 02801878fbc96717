package normalizer

import (
	"encoding/json"
	"testing"
)

func TestNewTransformer(t *testing.T) {
	tr := NewTransformer()
	if tr == nil {
		t.Fatal("NewTransformer returned nil")
	}
}

func TestTransformer_Transform_ImplicitVariation(t *testing.T) {
	tr := NewTransformer()

	ad := tr.Transform(testAdvertiser, map[string]any{
		"adId":      "A1",
		"adFormat":  "  IMAGE ",
		"region":    "DE",
		"videoUrl":  "https://youtu.be/implicit",
		"headline":  "Spring sale",
		"lastShown": "2024-03-03",
	})

	if ad.Format != "image" {
		t.Errorf("Format = %q, want image", ad.Format)
	}

	if len(ad.Regions) != 1 || ad.Regions[0] != "DE" {
		t.Errorf("Regions = %v, want [DE]", ad.Regions)
	}

	if ad.LastShown != "2024-03-03" || ad.FirstShown != "" {
		t.Errorf("shown range = %q..%q, want \"\"..2024-03-03", ad.FirstShown, ad.LastShown)
	}

	if len(ad.Variations) != 1 {
		t.Fatalf("Variations = %d, want 1", len(ad.Variations))
	}

	v := ad.Variations[0]
	if v["headline"] != "Spring sale" {
		t.Errorf("implicit variation lost headline: %#v", v)
	}

	meta, ok := v.VideoMetadata()
	if !ok || meta.AdID != "implicit" {
		t.Errorf("metadata = %+v, want adId implicit", meta)
	}
}

func TestTransformer_Transform_FormatDefaults(t *testing.T) {
	tr := NewTransformer()

	noVideo := tr.Transform(testAdvertiser, map[string]any{"adId": "A2", "variations": []any{}})
	if noVideo.Format != FormatUnknown {
		t.Errorf("Format = %s, want %s", noVideo.Format, FormatUnknown)
	}

	if len(noVideo.Variations) != 0 {
		t.Errorf("Variations = %d, want 0", len(noVideo.Variations))
	}

	withVideo := tr.Transform(testAdvertiser, map[string]any{
		"adId":       "A3",
		"variations": []any{map[string]any{"url": "https://www.youtube.com/watch?v=vid"}},
	})
	if withVideo.Format != FormatVideo {
		t.Errorf("Format = %s, want %s", withVideo.Format, FormatVideo)
	}
}

func TestTransformer_Transform_NumericIDAndJSON(t *testing.T) {
	tr := NewTransformer()

	ad := tr.Transform(testAdvertiser, map[string]any{"id": json.Number("9001")})
	if ad.AdID != "9001" {
		t.Fatalf("AdID = %s, want 9001", ad.AdID)
	}

	data, err := json.Marshal(ad)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if regions, ok := decoded["regions"].([]any); !ok || len(regions) != 0 {
		t.Errorf("regions = %#v, want empty list", decoded["regions"])
	}

	for _, key := range []string{"recordId", "advertiserId", "advertiserName", "adId", "format", "variations"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %s in %s", key, data)
		}
	}
}

func TestRecordID(t *testing.T) {
	a := RecordID("AR1", "X")
	if a != RecordID("AR1", "X") {
		t.Error("RecordID is not deterministic")
	}

	if a == RecordID("AR2", "X") {
		t.Error("RecordID should differ across advertisers")
	}

	if len(a) != 36 {
		t.Errorf("RecordID = %q, want UUID string", a)
	}
}
