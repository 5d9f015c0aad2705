package gcs

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const publicHost = "https://storage.googleapis.com"

type GCSClient struct {
	Client     *storage.Client
	BucketName string
}

func NewGCSClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*GCSClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSClient{
		Client:     client,
		BucketName: bucketName,
	}, nil
}

func (g *GCSClient) Close(ctx context.Context) {
	if g.Client == nil {
		return
	}
	if err := g.Client.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSClient, err)
		return
	}
	logger.CtxInfo(ctx, log_messages.StorageClientClosed, zap.String("provider", "gcs"))
}

// Upload writes data under objectName, replacing any existing object, and
// returns the object's public URL.
func (g *GCSClient) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	writer := g.Client.Bucket(g.BucketName).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		logger.CtxError(ctx, log_messages.ErrorUploadingToGCSBucket, err, zap.String("object", objectName))
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSWriter, err, zap.String("object", objectName))
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}

	logger.CtxInfo(ctx, log_messages.UploadedToGCSBucket,
		zap.String("object", objectName),
		zap.Int("bytes", len(data)),
	)
	return PublicURL(g.BucketName, objectName), nil
}

// PublicURL is the storage.googleapis.com URL of an object, with each path
// segment escaped.
func PublicURL(bucket, objectName string) string {
	segments := strings.Split(objectName, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s", publicHost, bucket, strings.Join(segments, "/"))
}
