package interfaces

import "context"

// ObjectStorage stores uploaded case documents and returns their public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
	Close(ctx context.Context)
}
