package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	cfg "github.com/filedrive/filedrive/internal/config"
)

// BlobStore is the blob backend collaborator. File bytes never pass through
// the engine: clients upload via a presigned handle and download via a
// presigned display URL.
type BlobStore interface {
	// GenerateUploadHandle returns a new opaque blob ref and a presigned
	// URL the client PUTs the bytes to.
	GenerateUploadHandle(ctx context.Context) (ref string, url string, err error)

	// Exists reports whether the blob behind ref is present.
	Exists(ctx context.Context, ref string) (bool, error)

	// DisplayURL returns a presigned GET URL for ref, or "" when the blob
	// is missing.
	DisplayURL(ctx context.Context, ref string) (string, error)

	// Delete removes the blob behind ref.
	Delete(ctx context.Context, ref string) error
}

// S3Store implements BlobStore for S3-compatible storage.
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
type S3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	uploadExpiry  time.Duration
	displayExpiry time.Duration
	callTimeout   time.Duration
}

// S3Config holds configuration for S3 storage
type S3Config struct {
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	Endpoint      string // Optional: for S3-compatible services
	UploadExpiry  time.Duration
	DisplayExpiry time.Duration
	CallTimeout   time.Duration
}

// New creates an S3-compatible blob store from app config
// For development: Use MinIO (see docker-compose.yml)
// For production: Use any S3-compatible cloud provider
func New(c *cfg.Config) (BlobStore, error) {
	slog.Info("initializing S3 blob store",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Store(S3Config{
		Region:        c.S3Region,
		Bucket:        c.S3Bucket,
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		Endpoint:      c.S3Endpoint,
		UploadExpiry:  c.S3UploadExpiry,
		DisplayExpiry: c.S3DisplayExpiry,
		CallTimeout:   c.S3CallTimeout,
	})
}

// NewS3Store creates a new S3 blob store instance
func NewS3Store(cfg S3Config) (*S3Store, error) {
	ctx := context.Background()

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	// Add static credentials if provided
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with optional custom endpoint
	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	store := &S3Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		uploadExpiry:  cfg.UploadExpiry,
		displayExpiry: cfg.DisplayExpiry,
		callTimeout:   cfg.CallTimeout,
	}

	// Auto-create bucket if it doesn't exist
	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return store, nil
}

// ensureBucket checks if bucket exists, creates it if not
func (s *S3Store) ensureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil // Bucket exists
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

// GenerateUploadHandle mints a fresh blob ref and presigns a PUT for it.
// The ref is opaque to callers; it becomes the file record's blob_ref once
// the client confirms the upload.
func (s *S3Store) GenerateUploadHandle(ctx context.Context) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	ref := fmt.Sprintf("blobs/%s", uuid.New().String())

	presignedReq, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.uploadExpiry
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}

	return ref, presignedReq.URL, nil
}

// Exists reports whether the blob behind ref is present in the bucket.
func (s *S3Store) Exists(ctx context.Context, ref string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to head object: %w", err)
	}

	return true, nil
}

// DisplayURL returns a presigned GET URL for ref. A missing blob yields ""
// with no error so listings can render files whose bytes are gone.
func (s *S3Store) DisplayURL(ctx context.Context, ref string) (string, error) {
	ok, err := s.Exists(ctx, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	presignedReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.displayExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}

	return presignedReq.URL, nil
}

// Delete removes a blob from S3
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	// HeadObject reports missing keys as a bare 404 on some S3-compatible
	// backends
	return strings.Contains(err.Error(), "StatusCode: 404")
}
