package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local keeps assets on disk under Dir, served by the app below URLPrefix.
type Local struct {
	Dir       string
	URLPrefix string
}

func NewLocal(dir, urlPrefix string) *Local {
	return &Local{Dir: dir, URLPrefix: urlPrefix}
}

func (l *Local) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	filePath := filepath.Join(l.Dir, filepath.FromSlash(key))

	// Create destination directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", err
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}
	return path.Join(l.URLPrefix, key), nil
}

// Delete removes the asset. Both keys and references returned by Save are accepted.
func (l *Local) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(key, l.URLPrefix+"/")
	err := os.Remove(filepath.Join(l.Dir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
