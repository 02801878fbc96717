// Package store mirrors exported ads into a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"adscraper/internal/models"
)

// StoredAd is one row of the ads table.
type StoredAd struct {
	RecordID     string
	AdvertiserID string
	AdID         string
	Format       string
	YouTubeAdID  string
	YouTubeURL   string
	CTAURL       string
	Payload      string
	ExportedAt   time.Time
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		db.Close()

		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ads (
            record_id TEXT PRIMARY KEY,
            advertiser_id TEXT NOT NULL,
            advertiser_name TEXT,
            ad_id TEXT NOT NULL,
            format TEXT,
            youtube_ad_id TEXT,
            youtube_url TEXT,
            cta_url TEXT,
            payload TEXT NOT NULL,
            exported_at TIMESTAMP NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_ads_advertiser ON ads(advertiser_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ads_youtube_ad_id ON ads(youtube_ad_id)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}

	return nil
}

// SaveAds upserts every ad in one transaction and returns how many rows were written.
// The YouTube columns carry the metadata of the first variation.
func (s *Store) SaveAds(ctx context.Context, ads []models.Ad) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ads
(record_id, advertiser_id, advertiser_name, ad_id, format, youtube_ad_id, youtube_url, cta_url, payload, exported_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(record_id) DO UPDATE SET
    advertiser_name = excluded.advertiser_name,
    format = excluded.format,
    youtube_ad_id = excluded.youtube_ad_id,
    youtube_url = excluded.youtube_url,
    cta_url = excluded.cta_url,
    payload = excluded.payload,
    exported_at = excluded.exported_at`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC()

	for _, ad := range ads {
		payload, err := json.Marshal(ad)
		if err != nil {
			return 0, fmt.Errorf("marshal ad %s: %w", ad.RecordID, err)
		}

		var meta models.VideoMetadata
		if len(ad.Variations) > 0 {
			meta, _ = ad.Variations[0].VideoMetadata()
		}

		if _, err := stmt.ExecContext(ctx,
			ad.RecordID, ad.AdvertiserID, ad.AdvertiserName, ad.AdID, ad.Format,
			meta.AdID, meta.YouTubeURL, meta.CTAURL, string(payload), now,
		); err != nil {
			return 0, fmt.Errorf("save ad %s: %w", ad.RecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(ads), nil
}

// Count returns the number of stored ads.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ads`).Scan(&n)

	return n, err
}

// GetByRecordID returns the stored ad or nil when absent.
func (s *Store) GetByRecordID(ctx context.Context, recordID string) (*StoredAd, error) {
	row := s.db.QueryRowContext(ctx, `SELECT record_id, advertiser_id, ad_id, format, youtube_ad_id, youtube_url, cta_url, payload, exported_at FROM ads WHERE record_id = ?`, recordID)

	var a StoredAd
	if err := row.Scan(&a.RecordID, &a.AdvertiserID, &a.AdID, &a.Format, &a.YouTubeAdID, &a.YouTubeURL, &a.CTAURL, &a.Payload, &a.ExportedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &a, nil
}
