package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config locates the published document in an S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string // optional; set for MinIO and other S3-compatible stores
	PathStyle bool

	// AccessKeyID and SecretAccessKey are optional; the default
	// credentials chain is used when empty.
	AccessKeyID     string
	SecretAccessKey string

	// HTTPClient overrides the transport; tests use it to fake S3.
	HTTPClient *http.Client
}

// S3Source fetches the published document from S3 or MinIO.
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Source builds an S3 client from cfg.
func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 bucket and key required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &S3Source{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

func (s *S3Source) Fetch(ctx context.Context) (domain.Dataset, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(s.key),
		ResponseCacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: s3://%s/%s: %v", ErrUnavailable, s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading s3 object: %v", ErrUnavailable, err)
	}
	format := FormatFor(s.key)
	if out.ContentType != nil && strings.Contains(*out.ContentType, "yaml") {
		format = FormatYAML
	}
	return DecodeDocument(data, format)
}
