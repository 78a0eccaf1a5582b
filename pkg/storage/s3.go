package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	pkglogger "github.com/damoang/caption-queue/pkg/logger"
)

// ObjectPutter is the subset of the S3 client used by S3Client
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Client stores media in S3/R2/MinIO compatible storage
type S3Client struct {
	client   ObjectPutter
	bucket   string
	cdnURL   string // optional CDN base URL (e.g. https://cdn.example.com)
	basePath string // prefix for all objects (e.g. "uploads/")
}

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Endpoint        string // e.g. https://xxx.r2.cloudflarestorage.com
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string
	BasePath        string
	ForcePathStyle  bool // true for MinIO/R2
}

// NewS3Client creates a new S3-compatible storage client
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	opts := func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}

	client := s3.New(s3.Options{}, opts)

	pkglogger.GetLogger().Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Msg("S3 storage client initialized")

	return NewS3ClientWith(client, cfg), nil
}

// NewS3ClientWith wraps an existing putter, used by tests
func NewS3ClientWith(client ObjectPutter, cfg S3Config) *S3Client {
	return &S3Client{
		client:   client,
		bucket:   cfg.Bucket,
		cdnURL:   strings.TrimRight(cfg.CDNURL, "/"),
		basePath: cfg.BasePath,
	}
}

// Save implements Store. The returned reference is the CDN URL when one is
// configured, otherwise the object key.
func (c *S3Client) Save(ctx context.Context, body io.Reader, originalName string) (string, error) {
	fullKey := c.basePath + GenerateKey("media", originalName)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(fullKey),
		Body:        body,
		ContentType: aws.String(ContentType(originalName)),
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	if c.cdnURL != "" {
		return c.cdnURL + "/" + fullKey, nil
	}
	return fullKey, nil
}
