package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kurin/blazer/b2"
)

// B2 keeps assets in a Backblaze B2 bucket.
type B2 struct {
	Client *b2.Client
	Bucket *b2.Bucket
}

func NewB2(ctx context.Context, accountID, appKey, bucketName string) (*B2, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &B2{Client: client, Bucket: bucket}, nil
}

func (s *B2) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	w := s.Bucket.Object(key).NewWriter(ctx)

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}
	return s.url(key), nil
}

func (s *B2) Delete(ctx context.Context, ref string) error {
	key := objectKey(s.Bucket.BaseURL(), s.Bucket.Name(), ref)
	if err := s.Bucket.Object(key).Delete(ctx); err != nil && !b2.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *B2) url(key string) string {
	return objectURL(s.Bucket.BaseURL(), s.Bucket.Name(), key)
}

// objectURL is the public download URL of key in bucket.
func objectURL(baseURL, bucket, key string) string {
	return fmt.Sprintf("%s/file/%s/%s", strings.TrimSuffix(baseURL, "/"), bucket, key)
}

// objectKey turns a reference returned by Save back into its object key.
// Bare keys are returned as is.
func objectKey(baseURL, bucket, ref string) string {
	return strings.TrimPrefix(ref, objectURL(baseURL, bucket, ""))
}
