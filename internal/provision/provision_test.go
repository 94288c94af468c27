package provision

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeClasses struct {
	count int
	err   error
}

func (f *fakeClasses) RequiredPhotoCount(ctx context.Context, classID string) (int, error) {
	return f.count, f.err
}

type fakePresigner struct {
	calls   atomic.Int32
	failKey string
}

func (f *fakePresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.calls.Add(1)
	if f.failKey != "" && *params.Key == f.failKey {
		return nil, errors.New("signing failed")
	}
	return &v4.PresignedHTTPRequest{
		URL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s?sig=%d", *params.Bucket, *params.Key, f.calls.Load()),
	}, nil
}

func TestProvisionOneGrantPerRequiredPhoto(t *testing.T) {
	svc := New(&fakePresigner{}, "submissions", &fakeClasses{count: 4}, 0)

	uploads, err := svc.Provision(context.Background(), "dev0", "7", "class-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(uploads) != 4 {
		t.Fatalf("expected 4 uploads, got %d", len(uploads))
	}

	for i, u := range uploads {
		if u.Key.OrderIndex != i {
			t.Errorf("upload %d: orderIndex %d, expected ascending order", i, u.Key.OrderIndex)
		}
		if u.UploadURL == "" {
			t.Errorf("upload %d: missing upload URL", i)
		}
	}
	if uploads[0].StoreKey != "dev0/0007/01/0007_01.jpg" {
		t.Errorf("unexpected first key %q", uploads[0].StoreKey)
	}
	if uploads[3].StoreKey != "dev0/0007/04/0007_04.jpg" {
		t.Errorf("unexpected last key %q", uploads[3].StoreKey)
	}
}

func TestProvisionIdempotentAddressing(t *testing.T) {
	svc := New(&fakePresigner{}, "submissions", &fakeClasses{count: 3}, 0)

	first, err := svc.Provision(context.Background(), "dev0", "42", "class-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Provision(context.Background(), "dev0", "42", "class-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("batch sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].StoreKey != second[i].StoreKey {
			t.Errorf("slot %d: keys differ across batches: %q vs %q", i, first[i].StoreKey, second[i].StoreKey)
		}
		if second[i].UploadURL == "" {
			t.Errorf("slot %d: second batch grant missing", i)
		}
	}
}

func TestProvisionAtomicOnGrantFailure(t *testing.T) {
	p := &fakePresigner{failKey: "dev0/0007/02/0007_02.jpg"}
	svc := New(p, "submissions", &fakeClasses{count: 3}, 0)

	uploads, err := svc.Provision(context.Background(), "dev0", "7", "class-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if uploads != nil {
		t.Errorf("expected no partial batch, got %d uploads", len(uploads))
	}

	var batchErr *GrantBatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected GrantBatchError, got %T", err)
	}
	if batchErr.Failed != 1 || batchErr.Total != 3 {
		t.Errorf("expected 1/3 failed, got %d/%d", batchErr.Failed, batchErr.Total)
	}
}

func TestProvisionClassLookupFailure(t *testing.T) {
	svc := New(&fakePresigner{}, "submissions", &fakeClasses{err: errors.New("not found")}, 0)
	if _, err := svc.Provision(context.Background(), "dev0", "7", "missing"); err == nil {
		t.Fatal("expected error")
	}
}

func TestProvisionRejectsEmptyInputs(t *testing.T) {
	p := &fakePresigner{}
	svc := New(p, "submissions", &fakeClasses{count: 1}, 0)
	if _, err := svc.Provision(context.Background(), "", "7", "c"); err == nil {
		t.Error("expected error for empty domain")
	}
	if _, err := svc.Provision(context.Background(), "dev0", "", "c"); err == nil {
		t.Error("expected error for empty participantRef")
	}
	if p.calls.Load() != 0 {
		t.Errorf("presigner should not be called, got %d calls", p.calls.Load())
	}
}

func TestKeys(t *testing.T) {
	keys := Keys("dev0", "7", 2)
	want := []string{"dev0/0007/01/0007_01.jpg", "dev0/0007/02/0007_02.jpg"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %q, got %q", i, want[i], keys[i])
		}
	}
}
