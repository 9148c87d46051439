package interfaces

import (
	"context"
	"io"
)

// IImageStorage stores listing images in an S3-compatible bucket and returns a public URL.
type IImageStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
}
