package storage

import (
	"context" // Request-scoped context
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"io"      // Blob streams
	"strings" // Endpoint scheme check

	"github.com/aws/aws-sdk-go-v2/aws"              // AWS helpers
	"github.com/aws/aws-sdk-go-v2/config"           // AWS configuration loading
	"github.com/aws/aws-sdk-go-v2/credentials"      // Static credentials
	"github.com/aws/aws-sdk-go-v2/service/s3"       // S3 client
	"github.com/aws/aws-sdk-go-v2/service/s3/types" // S3 error types
	"github.com/sirupsen/logrus"                    // Logging library
)

var _ BlobStore = (*S3Store)(nil)

// S3Config configures an S3-compatible bucket (AWS S3, MinIO, ...)
type S3Config struct {
	Endpoint     string // Custom endpoint, empty for AWS
	Region       string // Bucket region
	Bucket       string // Bucket name
	AccessKey    string // Access key ID
	SecretKey    string // Secret access key
	UsePathStyle bool   // Path-style addressing, needed by MinIO
}

// S3Store keeps blobs in an S3 bucket
type S3Store struct {
	client *s3.Client // S3 client
	bucket string     // Bucket name
}

// NewS3Store builds a client with static credentials
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage credentials are required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1" // Default region
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint // Assume TLS without a scheme
			}
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil // Bucket already there
	}
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("check bucket: %w", err)
	}

	logrus.WithField("bucket", s.bucket).Info("Creating storage bucket")
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound // Unknown key
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return out.Body, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
