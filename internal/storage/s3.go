package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the connection settings for an S3-compatible object store
type S3Config struct {
	// Endpoint overrides the AWS endpoint for MinIO, R2 and similar providers
	Endpoint       string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// S3Client wraps the SDK client together with its bucket
type S3Client struct {
	s3     *s3.Client
	bucket string
}

// NewS3Client creates an S3 client. Static credentials are used when an access key is set,
// otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("storage: region is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3Client{s3: client, bucket: cfg.Bucket}, nil
}

// S3Writer uploads objects with single PutObject calls
type S3Writer struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Writer creates a writer for the client's bucket. baseURL is the public prefix
// objects are served from.
func NewS3Writer(c *S3Client, baseURL string) *S3Writer {
	return &S3Writer{client: c.s3, bucket: c.bucket, baseURL: baseURL}
}

func (w *S3Writer) Put(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(key),
		Body:   data,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := w.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("storage: put object %s: %w", key, err)
	}
	return publicPath(w.baseURL, key), nil
}
