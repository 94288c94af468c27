// Package storage holds the object-storage configuration shared by the
// Lambdas and small S3 transfer helpers. Bucket names and public base URLs
// are provisioned per environment and injected via environment variables at
// cold start.
package storage

import (
	"os"

	"github.com/rs/zerolog/log"
)

// Config enumerates the platform's buckets and the CDN base URLs in front of
// them. Submission holds originals as uploaded, Thumbnail and Preview hold
// generated variants, Settings holds per-marathon assets (logo, terms), and
// Exports holds generated ZIP bundles.
type Config struct {
	SubmissionBucket string
	ThumbnailBucket  string
	PreviewBucket    string
	SettingsBucket   string
	ExportsBucket    string

	SubmissionBaseURL string
	ThumbnailBaseURL  string
	PreviewBaseURL    string
}

// FromEnv reads the storage configuration from the environment. The bucket
// named by each entry in required must be set; missing required values are
// fatal, matching cold-start behavior elsewhere. Base URLs are optional —
// display resolution degrades per its fallback order when one is absent.
func FromEnv(required ...string) Config {
	cfg := Config{
		SubmissionBucket:  os.Getenv("SUBMISSION_BUCKET_NAME"),
		ThumbnailBucket:   os.Getenv("THUMBNAIL_BUCKET_NAME"),
		PreviewBucket:     os.Getenv("PREVIEW_BUCKET_NAME"),
		SettingsBucket:    os.Getenv("SETTINGS_BUCKET_NAME"),
		ExportsBucket:     os.Getenv("EXPORTS_BUCKET_NAME"),
		SubmissionBaseURL: os.Getenv("SUBMISSION_BASE_URL"),
		ThumbnailBaseURL:  os.Getenv("THUMBNAIL_BASE_URL"),
		PreviewBaseURL:    os.Getenv("PREVIEW_BASE_URL"),
	}

	for _, envVar := range required {
		if os.Getenv(envVar) == "" {
			log.Fatal().Str("envVar", envVar).Msg("Bucket environment variable is required")
		}
	}
	return cfg
}
