package cleanup

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeDeleter struct {
	mu     sync.Mutex
	calls  []string
	failOn map[string]bool
}

func (f *fakeDeleter) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	target := *params.Bucket + "/" + *params.Key
	f.calls = append(f.calls, target)
	if f.failOn[target] {
		return nil, errors.New("access denied")
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeDeleter) called(target string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == target {
			return true
		}
	}
	return false
}

var testBuckets = Buckets{Submission: "subs", Thumbnail: "thumbs", Preview: "previews"}

func TestResetUploadsDeletesAllVariants(t *testing.T) {
	f := &fakeDeleter{}
	svc := New(f, testBuckets)

	svc.ResetUploads(context.Background(), []Item{
		{SubmissionKey: "d/0001/01/0001_01.jpg", ThumbnailKey: "d/0001/01/0001_01.webp", PreviewKey: "d/0001/01/0001_01_preview.jpg"},
	})

	for _, want := range []string{
		"subs/d/0001/01/0001_01.jpg",
		"thumbs/d/0001/01/0001_01.webp",
		"previews/d/0001/01/0001_01_preview.jpg",
	} {
		if !f.called(want) {
			t.Errorf("expected delete of %s", want)
		}
	}
}

func TestResetUploadsSkipsMissingVariants(t *testing.T) {
	f := &fakeDeleter{}
	svc := New(f, testBuckets)

	svc.ResetUploads(context.Background(), []Item{{SubmissionKey: "d/0001/01/0001_01.jpg"}})

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) != 1 {
		t.Errorf("expected exactly 1 delete, got %d: %v", len(f.calls), f.calls)
	}
}

func TestResetUploadsIsolatesFailures(t *testing.T) {
	// One thumbnail delete fails; the item's other objects and all other
	// items must still be attempted, and nothing escapes as an error.
	f := &fakeDeleter{failOn: map[string]bool{"thumbs/d/0001/01/0001_01.webp": true}}
	svc := New(f, testBuckets)

	svc.ResetUploads(context.Background(), []Item{
		{SubmissionKey: "d/0001/01/0001_01.jpg", ThumbnailKey: "d/0001/01/0001_01.webp", PreviewKey: "d/0001/01/0001_01_preview.jpg"},
		{SubmissionKey: "d/0002/01/0002_01.jpg", ThumbnailKey: "d/0002/01/0002_01.webp"},
	})

	for _, want := range []string{
		"subs/d/0001/01/0001_01.jpg",
		"previews/d/0001/01/0001_01_preview.jpg",
		"subs/d/0002/01/0002_01.jpg",
		"thumbs/d/0002/01/0002_01.webp",
	} {
		if !f.called(want) {
			t.Errorf("expected delete of %s despite unrelated failure", want)
		}
	}
}

func TestResetUploadsEmptyBatch(t *testing.T) {
	f := &fakeDeleter{}
	New(f, testBuckets).ResetUploads(context.Background(), nil)
	if len(f.calls) != 0 {
		t.Errorf("expected no deletes, got %v", f.calls)
	}
}
