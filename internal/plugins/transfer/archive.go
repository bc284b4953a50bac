package transfer

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/keyxmakerx/devpalette/internal/config"
)

// archiveTimeout bounds a single archive upload.
const archiveTimeout = 15 * time.Second

// Archiver keeps a copy of every export.
type Archiver interface {
	Archive(ctx context.Context, userID string, at time.Time, doc []byte) (key string, err error)
}

// s3Archiver uploads exports to an S3-compatible bucket.
type s3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Archiver creates an Archiver for the configured bucket. A custom
// endpoint (R2, MinIO) switches to path-style addressing.
func NewS3Archiver(cfg config.ArchiveConfig) Archiver {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Credentials = creds
		o.Region = cfg.Region
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Archiver{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}
}

// Archive uploads doc and returns its object key.
func (a *s3Archiver) Archive(ctx context.Context, userID string, at time.Time, doc []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	key := objectKey(a.prefix, userID, at)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(doc),
		ContentLength: aws.Int64(int64(len(doc))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return key, nil
}

// objectKey is <prefix>/<userID>/<UTC timestamp>.json. An empty prefix puts
// user folders at the bucket root.
func objectKey(prefix, userID string, at time.Time) string {
	return path.Join(prefix, userID, at.UTC().Format("20060102T150405Z")+".json")
}
