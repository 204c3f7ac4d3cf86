package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// DefaultURLTTL is how long presigned URLs stay valid.
const DefaultURLTTL = 15 * time.Minute

// S3Config contains the settings for an S3-backed object store.
type S3Config struct {
	// Endpoint overrides the AWS endpoint for S3-compatible stores
	// (MinIO, Ceph RGW). Empty means real AWS S3.
	Endpoint string

	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string

	// KeyPrefix is an optional prefix for all object keys.
	KeyPrefix string

	// ForcePathStyle uses path-style addressing, required by most
	// S3-compatible stores.
	ForcePathStyle bool

	// PublicBaseURL is the base for unsigned object URLs, typically a CDN
	// or the bucket website endpoint. Empty derives a virtual-hosted S3 URL.
	PublicBaseURL string

	// URLTTL is the lifetime of presigned URLs. Zero means DefaultURLTTL.
	URLTTL time.Duration
}

// S3ObjectStore implements ObjectStore on Amazon S3 or any S3-compatible
// service.
//
// Thread safety: safe for concurrent use. Presigning is a local signature
// computation and Delete is a single idempotent request.
type S3ObjectStore struct {
	client        *s3.Client
	presigner     *s3.PresignClient
	bucket        string
	keyPrefix     string
	publicBaseURL string
	urlTTL        time.Duration
}

// NewS3Client creates an S3 client from configuration parameters.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token (empty for static credentials)
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return client, nil
}

// NewS3ObjectStore creates an S3-backed object store. The bucket must
// already exist.
func NewS3ObjectStore(client *s3.Client, cfg S3Config) *S3ObjectStore {
	ttl := cfg.URLTTL
	if ttl == 0 {
		ttl = DefaultURLTTL
	}
	publicBase := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3ObjectStore{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		keyPrefix:     cfg.KeyPrefix,
		publicBaseURL: publicBase,
		urlTTL:        ttl,
	}
}

// PublicURL composes the unsigned URL for a key under the public base.
func (s *S3ObjectStore) PublicURL(key string) string {
	escaped := (&url.URL{Path: s.objectKey(key)}).EscapedPath()
	return s.publicBaseURL + "/" + strings.TrimPrefix(escaped, "/")
}

func (s *S3ObjectStore) objectKey(key string) string {
	return s.keyPrefix + key
}

// PresignUpload issues a presigned POST slot. A content-length-range policy
// condition caps the upload at maxSize so a client cannot blow past the
// quota check by lying about the file size.
func (s *S3ObjectStore) PresignUpload(ctx context.Context, key, contentType string, maxSize int64) (*UploadSlot, error) {
	post, err := s.presigner.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignPostOptions) {
		opts.Expires = s.urlTTL
		opts.Conditions = []interface{}{
			[]interface{}{"content-length-range", int64(0), maxSize},
		}
	})
	if err != nil {
		return nil, models.NewUpstreamError("presign upload", err)
	}

	return &UploadSlot{URL: post.URL, Fields: post.Values}, nil
}

func (s *S3ObjectStore) PresignDownload(ctx context.Context, key, filename string, disposition Disposition) (string, error) {
	contentDisposition := fmt.Sprintf("%s; filename=%q", disposition, filename)
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(s.objectKey(key)),
		ResponseContentDisposition: aws.String(contentDisposition),
	}, s3.WithPresignExpires(s.urlTTL))
	if err != nil {
		return "", models.NewUpstreamError("presign download", err)
	}
	return req.URL, nil
}

// Delete removes the blob. S3 DeleteObject succeeds for missing keys, which
// gives us the tolerant semantics the interface asks for.
func (s *S3ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return models.NewUpstreamError("delete object", err)
	}
	return nil
}

var _ ObjectStore = (*S3ObjectStore)(nil)
