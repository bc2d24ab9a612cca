// Package spacesfs provides a filesystem-style client for S3-compatible
// object storage such as DigitalOcean Spaces. Paths are "bucket/key"
// strings; directories are the usual object-store fiction of shared key
// prefixes plus zero-byte marker objects with a trailing slash.
package spacesfs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultRegion is used when the config carries no region. S3-compatible
// endpoints still require one for request signing.
const DefaultRegion = "us-east-1"

// Config holds the credentials and endpoint for an S3-compatible service.
type Config struct {
	KeyID       string
	SecretKey   string
	EndpointURL string
	Region      string
}

// S3API is the subset of the S3 service client the filesystem uses.
// It exists so tests can substitute a fake for the real SDK client.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Client implements filesystem-style operations over an S3API.
type Client struct {
	api    S3API
	logger *slog.Logger
}

// New builds a Client bound to the configured endpoint with static
// credentials and path-style addressing. Credential validity is not
// checked here; an invalid key surfaces as an authentication error from
// the first remote call.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.KeyID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("spacesfs: key ID and secret key are required")
	}
	if cfg.EndpointURL == "" {
		return nil, fmt.Errorf("spacesfs: endpoint URL is required")
	}

	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.KeyID, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("spacesfs: failed to load client config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.EndpointURL)
		o.UsePathStyle = true
	})

	return NewWithAPI(api, logger), nil
}

// NewWithAPI builds a Client over an existing API implementation.
func NewWithAPI(api S3API, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:    api,
		logger: logger,
	}
}

// splitPath separates a "bucket/key" path into its bucket and key parts.
// The key part may be empty, meaning the bucket root.
func splitPath(path string) (string, string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", "", fmt.Errorf("spacesfs: empty path")
	}

	bucket, key, _ := strings.Cut(trimmed, "/")
	return bucket, key, nil
}
