package blob

import "context"

// Store is the outbound blob-storage contract: upload returns a stable
// reference URL for the stored object.
type Store interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	GetURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
