// Package exporter writes normalized ads to disk.
package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"adscraper/internal/logger"
	"adscraper/internal/models"
)

// ErrLocked is returned when another process holds the output lock past the timeout.
var ErrLocked = errors.New("output file is locked by another process")

const (
	defaultLockTimeout = 10 * time.Second
	lockRetryDelay     = 100 * time.Millisecond
)

// JSONExporter writes ads as one pretty-printed JSON array.
type JSONExporter struct {
	path        string
	lockTimeout time.Duration
	log         *logger.Logger
}

// NewJSONExporter creates an exporter for path.
func NewJSONExporter(path string, log *logger.Logger) *JSONExporter {
	return &JSONExporter{
		path:        path,
		lockTimeout: defaultLockTimeout,
		log:         log,
	}
}

// Path returns the destination file.
func (e *JSONExporter) Path() string {
	return e.path
}

// Export writes ads to a temporary file next to the destination and renames
// it into place, so readers never see a partial file. The write is guarded by
// an exclusive lock on "<path>.lock".
func (e *JSONExporter) Export(ctx context.Context, ads []models.Ad) (string, error) {
	if ads == nil {
		ads = []models.Ad{}
	}

	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(e.path + ".lock")

	lockCtx, cancel := context.WithTimeout(ctx, e.lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !locked {
		if err == nil || errors.Is(err, context.DeadlineExceeded) {
			err = ErrLocked
		}

		return "", fmt.Errorf("lock %s: %w", e.path, err)
	}
	defer lock.Unlock()

	data, err := encode(ads)
	if err != nil {
		return "", err
	}

	tmpPath := e.path + ".tmp"
	e.log.Debug("Writing records to temporary file", "count", len(ads), "path", tmpPath)

	if err := writeFileSync(tmpPath, data); err != nil {
		_ = os.Remove(tmpPath)

		return "", err
	}

	if err := os.Rename(tmpPath, e.path); err != nil {
		_ = os.Remove(tmpPath)

		return "", fmt.Errorf("replace %s: %w", e.path, err)
	}

	e.log.Info("Exported records", "count", len(ads), "path", e.path)

	return e.path, nil
}

// encode renders ads with two-space indentation and without HTML escaping.
func encode(ads []models.Ad) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(ads); err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return buf.Bytes(), nil
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()

		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()

		return fmt.Errorf("sync %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}
