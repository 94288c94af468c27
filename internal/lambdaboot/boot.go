// Package lambdaboot provides shared Lambda cold-start bootstrap logic.
//
// Every Lambda in the project needs some subset of: AWS config, S3 clients
// with a presigner, the export job table, the variant queue, Postgres, SSM
// parameter fetch, and startup logging. This package extracts the common
// init patterns so each Lambda's init() is a short composition of helpers.
package lambdaboot

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/strandhvilliam/vimmer-sub007/internal/jobstore"
	"github.com/strandhvilliam/vimmer-sub007/internal/logging"
	"github.com/strandhvilliam/vimmer-sub007/internal/queue"
	"github.com/strandhvilliam/vimmer-sub007/internal/store"
)

// AWSClients holds the core AWS SDK clients used across Lambdas.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// S3Clients holds the S3 client and its presigner.
type S3Clients struct {
	Client    *s3.Client
	Presigner *s3.PresignClient
}

// InitAWS loads the default AWS config and returns it along with common clients.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// InitS3 creates an S3 client and presigner from the given config.
func InitS3(cfg aws.Config) S3Clients {
	client := s3.NewFromConfig(cfg)
	return S3Clients{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
	}
}

// InitJobStore creates the DynamoDB export job store from the given config
// and table name environment variable. Fatals if the env var is empty.
func InitJobStore(cfg aws.Config, tableEnvVar string) *jobstore.Store {
	tableName := os.Getenv(tableEnvVar)
	if tableName == "" {
		log.Fatal().Str("envVar", tableEnvVar).Msg("DynamoDB table environment variable is required")
	}
	ddbClient := dynamodb.NewFromConfig(cfg)
	return jobstore.New(ddbClient, tableName)
}

// InitVariantQueue creates an SQS sender for the variant queue from the given
// config and queue URL environment variable. Fatals if the env var is empty.
func InitVariantQueue(cfg aws.Config, queueEnvVar string) *queue.Sender {
	queueURL := os.Getenv(queueEnvVar)
	if queueURL == "" {
		log.Fatal().Str("envVar", queueEnvVar).Msg("Queue URL environment variable is required")
	}
	return queue.NewSender(sqs.NewFromConfig(cfg), queueURL)
}

// InitPostgres opens the relational store using the DSN from the given
// environment variable. Fatals if the env var is empty or the pool cannot
// be created. Migrations are not run here; vimmerctl owns those.
func InitPostgres(dsnEnvVar string) *store.Postgres {
	dsn := os.Getenv(dsnEnvVar)
	if dsn == "" {
		log.Fatal().Str("envVar", dsnEnvVar).Msg("Database DSN environment variable is required")
	}
	pg, err := store.Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open Postgres store")
	}
	return pg
}

// LoadOriginSecret fetches the CDN origin-verify secret from SSM Parameter
// Store if not already set via ORIGIN_VERIFY_SECRET. The secret guards the
// API Lambdas against requests that bypass the CDN. Non-fatal: requests are
// accepted unguarded when no secret is configured.
func LoadOriginSecret(ssmClient *ssm.Client) string {
	if secret := os.Getenv("ORIGIN_VERIFY_SECRET"); secret != "" {
		return secret
	}
	paramName := os.Getenv("SSM_ORIGIN_SECRET_PARAM")
	if paramName == "" {
		log.Warn().Msg("Origin-verify secret not configured — requests accepted unguarded")
		return ""
	}
	ssmStart := time.Now()
	result, err := ssmClient.GetParameter(context.Background(), &ssm.GetParameterInput{
		Name:           &paramName,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		log.Warn().Err(err).Str("param", paramName).Msg("Failed to read origin-verify secret from SSM — requests accepted unguarded")
		return ""
	}
	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(ssmStart)).Msg("Origin-verify secret loaded from SSM")
	return *result.Parameter.Value
}

// StartupLog is a convenience wrapper for the startup logger.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
