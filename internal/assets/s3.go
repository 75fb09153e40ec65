// Package assets implements the asset store collaborator: cabin photos
// and staff avatars are uploaded to an S3-compatible bucket and served
// from a stable public URL prefix.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store is the narrow contract the mutation layer depends on. The S3
// implementation is used in production; tests substitute fakes.
type Store interface {
	Upload(ctx context.Context, name string, body io.Reader, contentType string) error
	Delete(ctx context.Context, name string) error
	PublicURL(name string) string
	BaseURL() string
}

// S3Store stores objects in a single bucket (AWS S3 or MinIO).
// Keys map to object names directly.
type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// S3Config holds explicit construction parameters (mostly for tests).
// For prod we rely primarily on environment variables.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string // optional; enables a custom endpoint (e.g. MinIO)
	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string // optional
	PublicBaseURL   string // public URL prefix assets are served from
	PathStyle       bool
}

// NewS3Store creates an asset store from S3Config.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	base := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, publicBase: base}, nil
}

// OpenFromEnv constructs an S3 asset store from process environment.
// Supported variables:
//
//	ASSET_S3_BUCKET      – bucket name (required)
//	ASSET_S3_REGION      – region (default us-east-1)
//	ASSET_S3_ENDPOINT    – custom endpoint for MinIO (optional)
//	ASSET_S3_PATH_STYLE  – true|false (default false)
//	ASSET_PUBLIC_URL     – public base URL assets are served from
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY (optional)
func OpenFromEnv(ctx context.Context) (*S3Store, error) {
	bucket := os.Getenv("ASSET_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("ASSET_S3_BUCKET required for the asset store")
	}
	return NewS3Store(ctx, S3Config{
		Bucket:        bucket,
		Region:        os.Getenv("ASSET_S3_REGION"),
		Endpoint:      os.Getenv("ASSET_S3_ENDPOINT"),
		PublicBaseURL: os.Getenv("ASSET_PUBLIC_URL"),
		PathStyle:     strings.EqualFold(os.Getenv("ASSET_S3_PATH_STYLE"), "true"),
	})
}

// Upload stores an object under name. Existing objects with the same
// name are overwritten; ObjectName makes collisions practically
// impossible.
func (s *S3Store) Upload(ctx context.Context, name string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &name, Body: body}
	if contentType != "" {
		input.ContentType = &contentType
	}
	_, err := s.client.PutObject(ctx, input)
	return err
}

// Delete removes an object. Deleting an absent object is not an error.
func (s *S3Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &name})
	return err
}

// PublicURL returns the stable public address of an object.
func (s *S3Store) PublicURL(name string) string {
	return s.publicBase + "/" + name
}

// BaseURL returns the public URL prefix. The cabin saga uses it to
// recognize images that are already hosted.
func (s *S3Store) BaseURL() string { return s.publicBase }

// ObjectName derives a flat object name from an uploaded filename: a
// random prefix guards against collisions and slashes are stripped so
// the name never nests into pseudo-directories.
func ObjectName(filename string) string {
	return strings.ReplaceAll(uuid.NewString()+"-"+filename, "/", "")
}
