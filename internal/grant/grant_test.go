package grant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePresigner struct {
	err   error
	calls int
}

func (f *fakePresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{
		URL:    fmt.Sprintf("https://%s.s3.amazonaws.com/%s?signed", *params.Bucket, *params.Key),
		Method: "PUT",
	}, nil
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{
		URL:    fmt.Sprintf("https://%s.s3.amazonaws.com/%s?signed", *params.Bucket, *params.Key),
		Method: "GET",
	}, nil
}

func TestIssueWrite(t *testing.T) {
	p := &fakePresigner{}
	before := time.Now()

	g, err := IssueWrite(context.Background(), p, "submissions", "dev0/0007/01/0007_01.jpg", "image/jpeg", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Key != "dev0/0007/01/0007_01.jpg" {
		t.Errorf("grant key %q does not match requested key", g.Key)
	}
	if g.URL == "" {
		t.Error("expected a non-empty URL")
	}
	if g.ExpiresAt.Before(before.Add(DefaultUploadTTL - time.Minute)) {
		t.Errorf("expected default TTL of %v, got expiry %v", DefaultUploadTTL, g.ExpiresAt)
	}
}

func TestIssueWriteSigningFailure(t *testing.T) {
	cause := errors.New("no credentials")
	p := &fakePresigner{err: cause}

	_, err := IssueWrite(context.Background(), p, "submissions", "k", "image/jpeg", time.Minute)
	if err == nil {
		t.Fatal("expected error")
	}
	var presignErr *PresignError
	if !errors.As(err, &presignErr) {
		t.Fatalf("expected PresignError, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Error("PresignError should wrap the signing cause")
	}
	if presignErr.Op != "put" {
		t.Errorf("expected op put, got %q", presignErr.Op)
	}
}

func TestIssueWriteRequiresBucketAndKey(t *testing.T) {
	p := &fakePresigner{}
	if _, err := IssueWrite(context.Background(), p, "", "k", "", 0); err == nil {
		t.Error("expected error for empty bucket")
	}
	if _, err := IssueWrite(context.Background(), p, "b", "", "", 0); err == nil {
		t.Error("expected error for empty key")
	}
	if p.calls != 0 {
		t.Errorf("presigner should not be called on invalid input, got %d calls", p.calls)
	}
}

func TestIssueRead(t *testing.T) {
	p := &fakePresigner{}
	g, err := IssueRead(context.Background(), p, "thumbnails", "dev0/0007/01/0007_01.webp", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.URL == "" || g.Key == "" {
		t.Error("expected populated grant")
	}
}
