package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"loan-case-tracker/internal/pkg/config"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// PutObjectAPI is the slice of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Client struct {
	Client        PutObjectAPI
	BucketName    string
	PublicBaseURL string
}

// NewS3Client loads the default AWS credential chain and builds a client for
// the configured bucket. A non-empty endpoint targets an S3-compatible store.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*S3Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Client{
		Client:        client,
		BucketName:    cfg.BucketName,
		PublicBaseURL: publicBaseURL(cfg),
	}, nil
}

func (c *S3Client) Close(ctx context.Context) {
	logger.CtxInfo(ctx, log_messages.StorageClientClosed, zap.String("provider", "s3"))
}

func (c *S3Client) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	_, err := c.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.BucketName),
		Key:           aws.String(objectName),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToS3Bucket, err, zap.String("object", objectName))
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}

	logger.CtxInfo(ctx, log_messages.UploadedToS3Bucket,
		zap.String("object", objectName),
		zap.Int("bytes", len(data)),
	)
	return strings.TrimRight(c.PublicBaseURL, "/") + "/" + objectName, nil
}

func publicBaseURL(cfg config.S3Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.BucketName
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.BucketName, cfg.Region)
	}
}
