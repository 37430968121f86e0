// Package storage keeps uploaded course assets. Content rows only record the
// reference returned by Save.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"courseplatform/config"

	"github.com/google/uuid"
)

// Store saves and removes uploaded assets.
type Store interface {
	// Save writes r under key and returns the reference stored on the row.
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// Default is the process-wide store, set by Init.
var Default Store

// New builds the store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocal(cfg.UploadDir, "/uploads"), nil
	case "b2":
		return NewB2(ctx, cfg.B2AccountID, cfg.B2AppKey, cfg.B2Bucket)
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

// Init sets Default from config.AppConfig.
func Init(ctx context.Context) error {
	s, err := New(ctx, config.AppConfig)
	if err != nil {
		return err
	}
	Default = s
	return nil
}

// NewKey builds a collision free key for an upload, grouped by kind and
// month like "images/2024/05/<uuid>.png".
func NewKey(kind, filename string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(kind+"s", at.Format("2006/01"), uuid.NewString()+ext)
}
