// Package storage issues time-limited signed URLs against the audio bucket. Signing is
// done locally by the S3 SDK (SigV4); no request reaches object storage here.
package storage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"tunebox/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const defaultContentType = "application/octet-stream"

func init() {
	// The stdlib table has no audio types unless the host provides mime.types.
	for ext, typ := range map[string]string{
		".mp3":  "audio/mpeg",
		".m4a":  "audio/mp4",
		".aac":  "audio/aac",
		".flac": "audio/flac",
		".ogg":  "audio/ogg",
		".opus": "audio/opus",
		".wav":  "audio/wav",
	} {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// SignedURL is a capability for one HTTP method against one object key.
type SignedURL struct {
	URL         string
	Method      string
	Key         string
	ContentType string
	ExpiresIn   time.Duration
}

// Issuer mints signed upload and download URLs.
type Issuer interface {
	IssueUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (*SignedURL, error)
	IssueDownloadURL(ctx context.Context, key string, ttl time.Duration) (*SignedURL, error)
}

// presigner is the subset of *s3.PresignClient the issuer needs.
type presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Issuer signs URLs for a single bucket, namespacing keys under a prefix.
type S3Issuer struct {
	presign    presigner
	bucket     string
	prefix     string
	defaultTTL time.Duration
}

// NewS3Issuer builds an issuer from the S3 settings. Static credentials are used when
// configured, otherwise the SDK's default credential chain applies.
func NewS3Issuer(ctx context.Context, cfg config.S3Config) (*S3Issuer, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Issuer(s3.NewPresignClient(client), cfg), nil
}

func newS3Issuer(p presigner, cfg config.S3Config) *S3Issuer {
	return &S3Issuer{
		presign:    p,
		bucket:     cfg.Bucket,
		prefix:     strings.Trim(cfg.AudioPrefix, "/"),
		defaultTTL: cfg.PresignTTL,
	}
}

// IssueUploadURL signs a single PUT of key. An empty contentType is guessed from the key.
func (i *S3Issuer) IssueUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (*SignedURL, error) {
	fullKey := ObjectKey(i.prefix, key)
	if contentType == "" {
		contentType = ContentTypeFor(fullKey)
	}
	ttl = i.ttl(ttl)

	req, err := i.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(i.bucket),
		Key:         aws.String(fullKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload for %s: %w", fullKey, err)
	}

	return &SignedURL{URL: req.URL, Method: req.Method, Key: fullKey, ContentType: contentType, ExpiresIn: ttl}, nil
}

// IssueDownloadURL signs GET access to key.
func (i *S3Issuer) IssueDownloadURL(ctx context.Context, key string, ttl time.Duration) (*SignedURL, error) {
	fullKey := ObjectKey(i.prefix, key)
	ttl = i.ttl(ttl)

	req, err := i.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(i.bucket),
		Key:    aws.String(fullKey),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to presign download for %s: %w", fullKey, err)
	}

	return &SignedURL{URL: req.URL, Method: req.Method, Key: fullKey, ExpiresIn: ttl}, nil
}

func (i *S3Issuer) ttl(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return i.defaultTTL
	}
	return ttl
}

// ObjectKey namespaces key under prefix. Keys already under the prefix are unchanged.
func ObjectKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	key = strings.TrimLeft(key, "/")
	if prefix == "" || strings.HasPrefix(key, prefix+"/") {
		return key
	}
	return prefix + "/" + key
}

// NewObjectKey returns "<prefix>/<random-hex><ext>" where ext comes from filename.
func NewObjectKey(prefix, filename string) string {
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ToLower(path.Ext(filename))
	return ObjectKey(prefix, name)
}

// ContentTypeFor guesses the MIME type of key from its extension.
func ContentTypeFor(key string) string {
	if typ := mime.TypeByExtension(strings.ToLower(path.Ext(key))); typ != "" {
		return typ
	}
	return defaultContentType
}
