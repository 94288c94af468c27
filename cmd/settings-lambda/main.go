// Package main provides the Lambda entry point for marathon settings assets.
//
// Organizers upload a marathon logo and a terms-and-conditions document
// through short-lived presigned PUT URLs. Logo keys carry a version query
// suffix so CDN caches are busted on replacement; the terms document lives
// at a fixed per-domain key.
//
// Endpoints:
//
//	GET  /api/health                    — health check (no auth required)
//	GET  /api/settings                  — current logo/terms keys and read URLs
//	POST /api/settings/logo/upload      — presigned PUT for the next logo version
//	POST /api/settings/logo/confirm     — record the uploaded logo key
//	POST /api/settings/terms/upload     — presigned PUT for the terms document
//	POST /api/settings/terms/confirm    — record the uploaded terms key
package main

import (
	"net/http"
	"os"
	"time"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/strandhvilliam/vimmer-sub007/internal/lambdaboot"
	"github.com/strandhvilliam/vimmer-sub007/internal/logging"
	"github.com/strandhvilliam/vimmer-sub007/internal/store"
)

// Clients and services initialized at cold start.
var (
	presigner          *s3.PresignClient
	settingsBucket     string
	pg                 *store.Postgres
	originVerifySecret string
)

func init() {
	initStart := time.Now()
	logging.Init()

	aws := lambdaboot.InitAWS()
	presigner = lambdaboot.InitS3(aws.Config).Presigner

	settingsBucket = os.Getenv("SETTINGS_BUCKET_NAME")
	if settingsBucket == "" {
		log.Fatal().Msg("SETTINGS_BUCKET_NAME environment variable is required")
	}

	pg = lambdaboot.InitPostgres("DATABASE_DSN")

	originVerifySecret = lambdaboot.LoadOriginSecret(aws.SSM)

	lambdaboot.StartupLog("settings-lambda", initStart).
		S3Bucket("settings", settingsBucket).
		Feature("originVerify", originVerifySecret != "").
		Log()
}

func main() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", handleHealth)
	mux.HandleFunc("/api/settings", handleGetSettings)
	mux.HandleFunc("/api/settings/logo/upload", handleLogoUpload)
	mux.HandleFunc("/api/settings/logo/confirm", handleLogoConfirm)
	mux.HandleFunc("/api/settings/terms/upload", handleTermsUpload)
	mux.HandleFunc("/api/settings/terms/confirm", handleTermsConfirm)

	handler := withOriginVerify(mux)

	adapter := httpadapter.NewV2(handler)
	awslambda.Start(adapter.ProxyWithContext)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "vimmer-settings",
	})
}
