// Package main provides the Lambda entry point for variant generation.
//
// The submission Lambda enqueues one SQS message per confirmed upload. This
// worker downloads the original JPEG, extracts EXIF capture info, renders a
// WebP thumbnail and a JPEG preview, uploads both variants, and records the
// variant keys on the submission row. Failed records are reported as partial
// batch failures so SQS redelivers only what failed.
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	eventbridgesvc "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	platformevents "github.com/strandhvilliam/vimmer-sub007/internal/events"
	"github.com/strandhvilliam/vimmer-sub007/internal/lambdaboot"
	"github.com/strandhvilliam/vimmer-sub007/internal/logging"
	"github.com/strandhvilliam/vimmer-sub007/internal/storage"
	"github.com/strandhvilliam/vimmer-sub007/internal/store"
)

// Clients and services initialized at cold start.
var (
	s3Client   *s3.Client
	storageCfg storage.Config
	pg         *store.Postgres
	emitter    *platformevents.Emitter
)

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	s3Client = lambdaboot.InitS3(aws.Config).Client

	storageCfg = storage.FromEnv(
		"SUBMISSION_BUCKET_NAME",
		"THUMBNAIL_BUCKET_NAME",
		"PREVIEW_BUCKET_NAME",
	)

	pg = lambdaboot.InitPostgres("DATABASE_DSN")

	if busName := os.Getenv("EVENT_BUS_NAME"); busName != "" {
		emitter = platformevents.NewEmitter(eventbridgesvc.NewFromConfig(aws.Config), busName)
	} else {
		log.Warn().Msg("EVENT_BUS_NAME not set — lifecycle events disabled")
	}

	lambdaboot.StartupLog("variant-lambda", initStart).
		S3Bucket("submissions", storageCfg.SubmissionBucket).
		S3Bucket("thumbnails", storageCfg.ThumbnailBucket).
		S3Bucket("previews", storageCfg.PreviewBucket).
		Feature("events", emitter != nil).
		Log()
}

// handleBatch processes one SQS batch. Each record is independent; a failed
// record is returned in BatchItemFailures for redelivery while the rest of
// the batch is acknowledged.
func handleBatch(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	var failures []events.SQSBatchItemFailure

	for _, record := range event.Records {
		if err := processRecord(ctx, record); err != nil {
			log.Error().Err(err).Str("messageId", record.MessageId).Msg("Variant generation failed")
			failures = append(failures, events.SQSBatchItemFailure{
				ItemIdentifier: record.MessageId,
			})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	awslambda.Start(handleBatch)
}
