// Package main provides the Lambda entry point for the submission API.
//
// Participants upload photos directly to S3 via presigned PUT URLs; this
// Lambda never touches photo bytes. It provisions upload batches, confirms
// completed uploads, resets a participant's batch, resolves display and
// download URLs, and manages export jobs.
//
// Endpoints:
//
//	GET  /api/health                  — health check (no auth required)
//	POST /api/uploads/provision       — presigned PUT grants for a participant's full batch
//	POST /api/uploads/confirm         — mark an upload complete, enqueue variant generation
//	POST /api/uploads/reset           — delete a participant's objects and reset slots
//	GET  /api/media/display-url       — resolve the preferred display URL for a submission
//	GET  /api/media/download-url      — presigned GET URL for the original
//	POST /api/exports/start           — start a ZIP export of a marathon's submissions
//	GET  /api/exports/{id}/results    — poll export bundle status and URLs
package main

import (
	"net/http"
	"os"
	"time"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	lambdasvc "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	eventbridgesvc "github.com/aws/aws-sdk-go-v2/service/eventbridge"

	"github.com/strandhvilliam/vimmer-sub007/internal/cleanup"
	"github.com/strandhvilliam/vimmer-sub007/internal/events"
	"github.com/strandhvilliam/vimmer-sub007/internal/grant"
	"github.com/strandhvilliam/vimmer-sub007/internal/lambdaboot"
	"github.com/strandhvilliam/vimmer-sub007/internal/logging"
	"github.com/strandhvilliam/vimmer-sub007/internal/provision"
	"github.com/strandhvilliam/vimmer-sub007/internal/storage"
)

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	s3c := lambdaboot.InitS3(aws.Config)
	s3Client = s3c.Client
	presigner = s3c.Presigner

	storageCfg = storage.FromEnv(
		"SUBMISSION_BUCKET_NAME",
		"THUMBNAIL_BUCKET_NAME",
		"PREVIEW_BUCKET_NAME",
	)

	pg = lambdaboot.InitPostgres("DATABASE_DSN")

	provisionSvc = provision.New(presigner, storageCfg.SubmissionBucket, pg.Classes, grant.DefaultUploadTTL)
	cleanupSvc = cleanup.New(s3Client, cleanup.Buckets{
		Submission: storageCfg.SubmissionBucket,
		Thumbnail:  storageCfg.ThumbnailBucket,
		Preview:    storageCfg.PreviewBucket,
	})

	variantQueue = lambdaboot.InitVariantQueue(aws.Config, "VARIANT_QUEUE_URL")

	if busName := os.Getenv("EVENT_BUS_NAME"); busName != "" {
		emitter = events.NewEmitter(eventbridgesvc.NewFromConfig(aws.Config), busName)
	} else {
		log.Warn().Msg("EVENT_BUS_NAME not set — lifecycle events disabled")
	}

	exportJobs = lambdaboot.InitJobStore(aws.Config, "EXPORT_JOBS_TABLE")

	exportLambdaArn = os.Getenv("EXPORT_LAMBDA_ARN")
	if exportLambdaArn == "" {
		log.Warn().Msg("EXPORT_LAMBDA_ARN not set — exports disabled")
	} else {
		lambdaClient = lambdasvc.NewFromConfig(aws.Config)
	}

	originVerifySecret = lambdaboot.LoadOriginSecret(aws.SSM)

	lambdaboot.StartupLog("submission-lambda", initStart).
		S3Bucket("submissions", storageCfg.SubmissionBucket).
		S3Bucket("thumbnails", storageCfg.ThumbnailBucket).
		S3Bucket("previews", storageCfg.PreviewBucket).
		DynamoTable("exportJobs", os.Getenv("EXPORT_JOBS_TABLE")).
		Queue("variants", os.Getenv("VARIANT_QUEUE_URL")).
		LambdaFunc("export", exportLambdaArn).
		Feature("events", emitter != nil).
		Feature("exports", exportLambdaArn != "").
		Feature("originVerify", originVerifySecret != "").
		Log()
}

func main() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", handleHealth)
	mux.HandleFunc("/api/uploads/provision", handleProvision)
	mux.HandleFunc("/api/uploads/confirm", handleConfirm)
	mux.HandleFunc("/api/uploads/reset", handleReset)
	mux.HandleFunc("/api/media/display-url", handleDisplayURL)
	mux.HandleFunc("/api/media/download-url", handleDownloadURL)
	mux.HandleFunc("/api/exports/start", handleExportStart)
	mux.HandleFunc("/api/exports/", handleExportRoutes)

	handler := withOriginVerify(mux)

	adapter := httpadapter.NewV2(handler)
	awslambda.Start(adapter.ProxyWithContext)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "vimmer-submissions",
	})
}
