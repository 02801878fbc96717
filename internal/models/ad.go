// Package models defines data structures for advertisers, ads and their creative variations.
package models

// DefaultAdvertiserName is used when an advertiser entry has no advertiserName key.
const DefaultAdvertiserName = "Unknown Advertiser"

// Advertiser is one entry of the advertisers sample file.
type Advertiser struct {
	ID   string `json:"advertiserId"`
	Name string `json:"advertiserName"`
	// Ads holds the raw ad records exactly as they appear in the source.
	Ads []any `json:"ads"`
	// InvalidAdsType names the JSON type of an "ads" value that was not a list.
	InvalidAdsType string `json:"-"`
}

// Ad represents a normalized ad ready for export.
type Ad struct {
	RecordID       string      `json:"recordId"`
	AdvertiserID   string      `json:"advertiserId"`
	AdvertiserName string      `json:"advertiserName"`
	AdID           string      `json:"adId"`
	Format         string      `json:"format"`
	FirstShown     string      `json:"firstShown"`
	LastShown      string      `json:"lastShown"`
	Regions        []string    `json:"regions"`
	Variations     []Variation `json:"variations"`
}

// YouTubeIDs returns the non-empty video identifiers across all variations, in order.
func (a *Ad) YouTubeIDs() []string {
	var ids []string

	for _, v := range a.Variations {
		if meta, ok := v.VideoMetadata(); ok && meta.AdID != "" {
			ids = append(ids, meta.AdID)
		}
	}

	return ids
}
