// Package main provides the Lambda entry point for export bundling.
//
// The submission Lambda invokes this worker asynchronously with a domain and
// job ID. The worker gathers the marathon's uploaded submissions, packs them
// into zstd-compressed ZIP bundles in the exports bucket, and records bundle
// status and presigned download URLs on the job in DynamoDB. Organizers poll
// the job via the submission API.
package main

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"time"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	eventbridgesvc "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	platformevents "github.com/strandhvilliam/vimmer-sub007/internal/events"
	"github.com/strandhvilliam/vimmer-sub007/internal/jobstore"
	"github.com/strandhvilliam/vimmer-sub007/internal/lambdaboot"
	"github.com/strandhvilliam/vimmer-sub007/internal/logging"
	"github.com/strandhvilliam/vimmer-sub007/internal/storage"
	"github.com/strandhvilliam/vimmer-sub007/internal/store"
)

// zipMethodZstd is the ZIP compression method ID for Zstandard (APPNOTE 6.3.7).
// Registered in init() with zstd level 12 (SpeedBestCompression in
// klauspost/compress). Requires 2+ GB Lambda memory due to zstd encoder
// window size at high levels.
const zipMethodZstd uint16 = 93

// exportEvent is the invocation payload from the submission Lambda.
type exportEvent struct {
	Domain string `json:"domain"`
	JobID  string `json:"jobId"`
}

// Clients and services initialized at cold start.
var (
	s3Client   *s3.Client
	presigner  *s3.PresignClient
	storageCfg storage.Config
	pg         *store.Postgres
	exportJobs *jobstore.Store
	emitter    *platformevents.Emitter
)

func init() {
	initStart := time.Now()
	logging.Init()

	zip.RegisterCompressor(zipMethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(12)))
	})

	aws := lambdaboot.InitAWS()
	s3c := lambdaboot.InitS3(aws.Config)
	s3Client = s3c.Client
	presigner = s3c.Presigner

	storageCfg = storage.FromEnv(
		"SUBMISSION_BUCKET_NAME",
		"EXPORTS_BUCKET_NAME",
	)

	pg = lambdaboot.InitPostgres("DATABASE_DSN")
	exportJobs = lambdaboot.InitJobStore(aws.Config, "EXPORT_JOBS_TABLE")

	if busName := os.Getenv("EVENT_BUS_NAME"); busName != "" {
		emitter = platformevents.NewEmitter(eventbridgesvc.NewFromConfig(aws.Config), busName)
	} else {
		log.Warn().Msg("EVENT_BUS_NAME not set — lifecycle events disabled")
	}

	lambdaboot.StartupLog("export-lambda", initStart).
		S3Bucket("submissions", storageCfg.SubmissionBucket).
		S3Bucket("exports", storageCfg.ExportsBucket).
		DynamoTable("exportJobs", os.Getenv("EXPORT_JOBS_TABLE")).
		Feature("events", emitter != nil).
		Log()
}

func handleExport(ctx context.Context, event exportEvent) error {
	if event.Domain == "" || event.JobID == "" {
		log.Error().Str("domain", event.Domain).Str("jobId", event.JobID).Msg("Export event missing domain or jobId")
		return nil // malformed event; retrying cannot help
	}
	runExportJob(ctx, event.Domain, event.JobID)
	return nil
}

func main() {
	awslambda.Start(handleExport)
}
