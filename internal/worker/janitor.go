package worker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"storefront-service/internal/blob"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// orphanGracePeriod protects files from in-flight uploads whose database
// row has not landed yet.
const orphanGracePeriod = time.Hour

// Janitor periodically removes attachment files no database row
// references anymore.
type Janitor struct {
	store    *store.Store
	blobs    *blob.LocalStore
	interval time.Duration
	logger   *zap.Logger
}

// NewJanitor creates a new attachment janitor
func NewJanitor(store *store.Store, blobs *blob.LocalStore, interval time.Duration) *Janitor {
	return &Janitor{
		store:    store,
		blobs:    blobs,
		interval: interval,
		logger:   util.GetLogger().Named("janitor"),
	}
}

// Start runs sweeps on the configured interval until the context ends
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Janitor stopped")
			return
		case <-ticker.C:
			if removed, err := j.Sweep(ctx); err != nil {
				j.logger.Error("Sweep failed", zap.Error(err))
			} else if removed > 0 {
				j.logger.Info("Sweep removed orphans", zap.Int("count", removed))
			}
		}
	}
}

// Sweep deletes files under the upload directories that are not referenced
// by any database row and are older than the grace period. Returns how many
// files were removed.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	referenced, err := j.store.ListAttachmentURLs(ctx)
	if err != nil {
		return 0, err
	}

	known := make(map[string]struct{}, len(referenced))
	for _, url := range referenced {
		known[url] = struct{}{}
	}

	cutoff := time.Now().Add(-orphanGracePeriod)
	removed := 0

	for _, dir := range []string{blob.DirProducts, blob.DirCategories, blob.DirHero, blob.DirReceipts} {
		root := filepath.Join(j.blobs.Root(), dir)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() {
				return nil
			}

			url := "/" + dir + "/" + d.Name()
			if _, ok := known[url]; ok {
				return nil
			}

			info, err := d.Info()
			if err != nil || info.ModTime().After(cutoff) {
				return nil
			}

			if err := j.blobs.Delete(url); err != nil {
				j.logger.Warn("Failed to remove orphan", zap.String("url", url), zap.Error(err))
				return nil
			}
			removed++
			util.JanitorFilesRemovedTotal.Inc()
			return nil
		})
		if err != nil {
			return removed, err
		}
	}

	return removed, nil
}
