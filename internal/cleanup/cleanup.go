// Package cleanup deletes a submission's stored objects across the original,
// thumbnail, and preview buckets. It is a recovery path — participants and
// staff reset failed or rejected uploads through it — so it is strictly
// best-effort: every delete is attempted, failures are logged and swallowed,
// and no error ever escapes to the caller.
package cleanup

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// ObjectDeleter is the slice of *s3.Client this package needs.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Buckets names the three buckets a submission's objects can live in.
type Buckets struct {
	Submission string
	Thumbnail  string
	Preview    string
}

// Item identifies one submission's objects. ThumbnailKey and PreviewKey are
// empty when the variant was never generated.
type Item struct {
	SubmissionKey string
	ThumbnailKey  string
	PreviewKey    string
}

// Service issues best-effort deletes for submission resets.
type Service struct {
	client  ObjectDeleter
	buckets Buckets
}

// New creates a cleanup Service over the given S3 client and buckets.
func New(client ObjectDeleter, buckets Buckets) *Service {
	return &Service{client: client, buckets: buckets}
}

// ResetUploads deletes the stored objects for every item: the original
// always, the thumbnail and preview when present. All deletes for an item
// run concurrently, and items are independent — one object's failure never
// stops the rest. Failures are logged; none are returned.
func (s *Service) ResetUploads(ctx context.Context, items []Item) {
	var wg sync.WaitGroup
	var deleted, failed sync.Map

	for _, item := range items {
		targets := []struct {
			bucket string
			key    string
		}{
			{s.buckets.Submission, item.SubmissionKey},
		}
		if item.ThumbnailKey != "" {
			targets = append(targets, struct{ bucket, key string }{s.buckets.Thumbnail, item.ThumbnailKey})
		}
		if item.PreviewKey != "" {
			targets = append(targets, struct{ bucket, key string }{s.buckets.Preview, item.PreviewKey})
		}

		for _, t := range targets {
			wg.Add(1)
			go func(bucket, key string) {
				defer wg.Done()
				_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
					Bucket: &bucket,
					Key:    &key,
				})
				if err != nil {
					log.Warn().Err(err).Str("bucket", bucket).Str("key", key).Msg("Failed to delete object during reset")
					failed.Store(bucket+"/"+key, struct{}{})
					return
				}
				deleted.Store(bucket+"/"+key, struct{}{})
			}(t.bucket, t.key)
		}
	}

	wg.Wait()

	deletedN, failedN := mapLen(&deleted), mapLen(&failed)
	if failedN > 0 {
		log.Warn().Int("deleted", deletedN).Int("failed", failedN).Int("items", len(items)).Msg("Upload reset completed with failures")
		return
	}
	log.Info().Int("deleted", deletedN).Int("items", len(items)).Msg("Upload reset completed")
}

func mapLen(m *sync.Map) int {
	n := 0
	m.Range(func(_, _ any) bool { n++; return true })
	return n
}
