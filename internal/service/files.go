package service

import (
	"context"
	"io"

	"github.com/gradehub/gradehub-api/pkg/cloudinary"
)

// FileStore abstracts the asset storage backend used for assignment files
// and submission uploads.
type FileStore interface {
	Upload(ctx context.Context, name string, reader io.Reader) (cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}
