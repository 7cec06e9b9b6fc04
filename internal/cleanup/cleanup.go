package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DefaultGrace защищает файлы, которые уже загружены, но ещё не привязаны к типу товара.
const DefaultGrace = time.Hour

const uploadsPrefix = "/uploads/"

type ImageRefs interface {
	ListImageURLs(ctx context.Context) ([]string, error)
}

type CleanupService struct {
	refs      ImageRefs
	uploadDir string
	grace     time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewCleanupService(refs ImageRefs, uploadDir string, grace time.Duration, log *zap.Logger) *CleanupService {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &CleanupService{
		refs:      refs,
		uploadDir: uploadDir,
		grace:     grace,
		log:       log,
		now:       time.Now,
	}
}

// CleanupOrphanedUploads удаляет изображения, на которые не ссылается ни один тип товара.
// Returns the number of removed files.
func (c *CleanupService) CleanupOrphanedUploads(ctx context.Context) (int, error) {
	urls, err := c.refs.ListImageURLs(ctx)
	if err != nil {
		c.log.Error("failed to load referenced images", zap.Error(err))
		return 0, err
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[path.Base(u)] = struct{}{}
	}

	entries, err := os.ReadDir(c.uploadDir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		c.log.Error("failed to read upload dir", zap.String("dir", c.uploadDir), zap.Error(err))
		return 0, err
	}

	cutoff := c.now().Add(-c.grace)
	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if e.IsDir() {
			continue
		}
		if _, ok := referenced[e.Name()]; ok {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(c.uploadDir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.log.Warn("failed to remove orphaned upload", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		c.log.Info("cleaned up orphaned uploads", zap.Int("count", removed))
	}
	return removed, nil
}

// ImageURL is the public path under which an uploaded file is served.
func ImageURL(name string) string {
	return uploadsPrefix + name
}
