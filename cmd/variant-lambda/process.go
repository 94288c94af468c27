package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	platformevents "github.com/strandhvilliam/vimmer-sub007/internal/events"
	"github.com/strandhvilliam/vimmer-sub007/internal/imaging"
	"github.com/strandhvilliam/vimmer-sub007/internal/metrics"
	"github.com/strandhvilliam/vimmer-sub007/internal/queue"
	"github.com/strandhvilliam/vimmer-sub007/internal/storage"
	"github.com/strandhvilliam/vimmer-sub007/internal/subkey"
)

// processRecord generates and uploads both variants for one confirmed upload.
// Variant keys are derived from the submission key, so reprocessing the same
// submission overwrites the same objects rather than accumulating copies.
func processRecord(ctx context.Context, record events.SQSMessage) error {
	var msg queue.VariantMessage
	if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
		return fmt.Errorf("unmarshal variant message: %w", err)
	}
	if _, err := subkey.Parse(msg.Key); err != nil {
		return fmt.Errorf("variant message key: %w", err)
	}

	start := time.Now()

	tmpPath, removeTmp, err := storage.DownloadToTemp(ctx, s3Client, storageCfg.SubmissionBucket, msg.Key)
	if err != nil {
		return fmt.Errorf("download original %s: %w", msg.Key, err)
	}
	defer removeTmp()

	original, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("read original %s: %w", msg.Key, err)
	}

	// Missing or broken EXIF is normal for edited photos; the submission is
	// still processed, just without capture info.
	capture, err := imaging.ExtractCaptureInfo(original)
	if err != nil {
		log.Warn().Err(err).Str("key", msg.Key).Msg("No usable EXIF metadata")
		capture = imaging.CaptureInfo{}
	}

	thumbData, err := imaging.RenderThumbnail(original)
	if err != nil {
		return fmt.Errorf("render thumbnail for %s: %w", msg.Key, err)
	}
	previewData, err := imaging.RenderPreview(original)
	if err != nil {
		return fmt.Errorf("render preview for %s: %w", msg.Key, err)
	}

	thumbKey := subkey.ThumbnailKey(msg.Key)
	previewKey := subkey.PreviewKey(msg.Key)

	if err := storage.UploadBytes(ctx, s3Client, storageCfg.ThumbnailBucket, thumbKey, "image/webp", thumbData); err != nil {
		return fmt.Errorf("upload thumbnail %s: %w", thumbKey, err)
	}
	if err := storage.UploadBytes(ctx, s3Client, storageCfg.PreviewBucket, previewKey, "image/jpeg", previewData); err != nil {
		return fmt.Errorf("upload preview %s: %w", previewKey, err)
	}

	var capturedAt *time.Time
	if capture.HasDate {
		capturedAt = &capture.CapturedAt
	}
	if err := pg.Submissions.SetVariants(ctx, msg.Key, thumbKey, previewKey, capturedAt, capture.Camera()); err != nil {
		return fmt.Errorf("record variants for %s: %w", msg.Key, err)
	}

	if err := emitter.Emit(ctx, platformevents.TypeSubmissionProcessed, platformevents.SubmissionProcessed{
		Domain:       msg.Domain,
		Key:          msg.Key,
		ThumbnailKey: thumbKey,
		PreviewKey:   previewKey,
	}); err != nil {
		log.Warn().Err(err).Str("key", msg.Key).Msg("Failed to emit processed event")
	}

	metrics.New().
		Dimension("Operation", "GenerateVariants").
		Count("SubmissionsProcessed").
		Metric("OriginalBytes", float64(len(original)), metrics.UnitBytes).
		Metric("ThumbnailBytes", float64(len(thumbData)), metrics.UnitBytes).
		Duration("VariantLatency", time.Since(start)).
		Property("domain", msg.Domain).
		Flush()

	log.Info().
		Str("key", msg.Key).
		Str("thumbnailKey", thumbKey).
		Str("previewKey", previewKey).
		Dur("elapsed", time.Since(start)).
		Msg("Variants generated")
	return nil
}
