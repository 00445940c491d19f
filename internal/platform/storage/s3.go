package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrMissingBucket = errors.New("storage bucket is required")

// Config points at an S3 compatible bucket (AWS, R2, MinIO).
type Config struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// ObjectPutter is the slice of the S3 API the bucket needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Bucket stores objects and hands back their public URL.
type Bucket struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

// NewBucket builds an S3 client from cfg. Static credentials win over the
// default AWS chain when both keys are set.
func NewBucket(ctx context.Context, cfg Config) (*Bucket, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrMissingBucket
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	slog.Info("object storage configured", slog.String("bucket", cfg.Bucket), slog.String("endpoint", cfg.Endpoint))
	return NewBucketWithClient(client, cfg.Bucket, publicBase(cfg)), nil
}

func NewBucketWithClient(client ObjectPutter, bucket, baseURL string) *Bucket {
	return &Bucket{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Store uploads body under key and returns its public URL.
func (b *Bucket) Store(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := b.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return b.baseURL + "/" + strings.TrimLeft(key, "/"), nil
}

func publicBase(cfg Config) string {
	if cfg.PublicBaseURL != "" {
		return cfg.PublicBaseURL
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, orDefault(cfg.Region, "us-east-1"))
}

func orDefault(value, fallback string) string {
	if value == "" || value == "auto" {
		return fallback
	}
	return value
}
