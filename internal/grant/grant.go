// Package grant mints presigned S3 capabilities: time-bounded URLs that let
// a client PUT one object directly to storage, or GET one object, without
// holding AWS credentials. Minting is pure request signing; no network call
// is made and no object is created.
package grant

import (
	"context"
	"fmt"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Default grant lifetimes. Submission uploads get a longer window because
// participants upload several multi-megabyte photos over mobile networks;
// settings uploads (logo, terms) are single small files.
const (
	DefaultUploadTTL   = 15 * time.Minute
	SettingsUploadTTL  = 5 * time.Minute
	DefaultDownloadTTL = time.Hour
)

// PresignError wraps a signing failure. Signing fails on misconfiguration
// (credentials, region), not on transient conditions, so callers should not
// retry blindly.
type PresignError struct {
	Op     string // "put" or "get"
	Bucket string
	Key    string
	Err    error
}

func (e *PresignError) Error() string {
	return fmt.Sprintf("presign %s s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *PresignError) Unwrap() error { return e.Err }

// PutPresigner is the slice of *s3.PresignClient used for write grants.
type PutPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// GetPresigner is the slice of *s3.PresignClient used for read grants.
type GetPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Grant is a minted capability. It is never persisted; it lives only in the
// response of the request that asked for it and expires passively via TTL.
type Grant struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueWrite mints a presigned PUT grant for bucket/key. The content type is
// part of the signature, so the uploader must send the same Content-Type
// header. A ttl of 0 uses DefaultUploadTTL.
func IssueWrite(ctx context.Context, presigner PutPresigner, bucket, key, contentType string, ttl time.Duration) (Grant, error) {
	if bucket == "" || key == "" {
		return Grant{}, &PresignError{Op: "put", Bucket: bucket, Key: key, Err: fmt.Errorf("bucket and key are required")}
	}
	if ttl <= 0 {
		ttl = DefaultUploadTTL
	}

	input := &s3.PutObjectInput{Bucket: &bucket, Key: &key}
	if contentType != "" {
		input.ContentType = &contentType
	}

	result, err := presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(ttl))
	if err != nil {
		return Grant{}, &PresignError{Op: "put", Bucket: bucket, Key: key, Err: err}
	}

	log.Debug().Str("bucket", bucket).Str("key", key).Dur("ttl", ttl).Msg("Write grant issued")
	return Grant{URL: result.URL, Key: key, ExpiresAt: time.Now().Add(ttl)}, nil
}

// IssueRead mints a presigned GET grant for bucket/key. A ttl of 0 uses
// DefaultDownloadTTL.
func IssueRead(ctx context.Context, presigner GetPresigner, bucket, key string, ttl time.Duration) (Grant, error) {
	if bucket == "" || key == "" {
		return Grant{}, &PresignError{Op: "get", Bucket: bucket, Key: key, Err: fmt.Errorf("bucket and key are required")}
	}
	if ttl <= 0 {
		ttl = DefaultDownloadTTL
	}

	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key}, s3.WithPresignExpires(ttl))
	if err != nil {
		return Grant{}, &PresignError{Op: "get", Bucket: bucket, Key: key, Err: err}
	}

	log.Debug().Str("bucket", bucket).Str("key", key).Dur("ttl", ttl).Msg("Read grant issued")
	return Grant{URL: result.URL, Key: key, ExpiresAt: time.Now().Add(ttl)}, nil
}
