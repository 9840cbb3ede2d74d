// Package s3 provides an S3-backed blob store implementation.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Roky360/fotogo-bakcend/pkg/store/blob"
)

// Config holds configuration for the S3 blob store.
type Config struct {
	// Bucket is the S3 bucket name.
	Bucket string `mapstructure:"bucket" yaml:"bucket" validate:"required"`

	// Region is the AWS region (optional, uses SDK default if empty).
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint is the S3 endpoint URL (optional, for S3-compatible services).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// KeyPrefix is prepended to all blob paths (e.g., "images/").
	// Should end with "/" if non-empty.
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`

	// ForcePathStyle forces path-style addressing (required for MinIO).
	ForcePathStyle bool `mapstructure:"force_path_style" yaml:"force_path_style"`

	// AccessKeyID and SecretAccessKey configure static credentials.
	// When empty the SDK default credential chain is used.
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`
}

// Store is an S3-backed implementation of blob.Store.
type Store struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	keyPrefix string

	mu     sync.RWMutex
	closed bool
}

var _ blob.Store = (*Store)(nil)

// New creates a blob store with an existing client.
func New(client *s3.Client, config Config) *Store {
	return &Store{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    config.Bucket,
		keyPrefix: config.KeyPrefix,
	}
}

// NewFromConfig creates a blob store by building an S3 client from config.
func NewFromConfig(ctx context.Context, config Config) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if config.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
		})
	}
	if config.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return New(s3.NewFromConfig(awsCfg, s3Opts...), config), nil
}

func (s *Store) fullKey(path string) string {
	return s.keyPrefix + path
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return blob.ErrStoreClosed
	}
	return nil
}

// Upload stores data under path.
func (s *Store) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(path)),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}

// Download returns the blob stored under path.
func (s *Store) Download(ctx context.Context, path string) ([]byte, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(path)),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3 object body: %w", err)
	}
	return data, nil
}

// Delete removes the blob under path. S3 deletes are idempotent so a missing
// blob is not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(path)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object: %w", err)
	}
	return nil
}

// DeletePrefix removes every blob under prefix using batch delete.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.fullKey(prefix)),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("s3 list objects: %w", err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		// Batch delete handles up to 1000 keys per call, one page's worth.
		objects := make([]types.ObjectIdentifier, len(page.Contents))
		for i, obj := range page.Contents {
			objects[i] = types.ObjectIdentifier{Key: obj.Key}
		}

		_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objects},
		})
		if err != nil {
			return fmt.Errorf("s3 delete objects: %w", err)
		}
	}
	return nil
}

// SignedURL returns a presigned GET URL for the blob under path.
func (s *Store) SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(path)),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("s3 presign get object: %w", err)
	}
	return req.URL, nil
}

// HealthCheck verifies the bucket is accessible.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 health check failed: %w", err)
	}
	return nil
}

// Close marks the store as closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// isNotFoundError checks if an error is an S3 not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "NoSuchKey") ||
		strings.Contains(errStr, "NotFound") ||
		strings.Contains(errStr, "404")
}
