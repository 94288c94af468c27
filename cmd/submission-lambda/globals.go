package main

import (
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/strandhvilliam/vimmer-sub007/internal/cleanup"
	"github.com/strandhvilliam/vimmer-sub007/internal/events"
	"github.com/strandhvilliam/vimmer-sub007/internal/jobstore"
	"github.com/strandhvilliam/vimmer-sub007/internal/provision"
	"github.com/strandhvilliam/vimmer-sub007/internal/queue"
	"github.com/strandhvilliam/vimmer-sub007/internal/storage"
	"github.com/strandhvilliam/vimmer-sub007/internal/store"
)

// Clients and services initialized at cold start.
var (
	s3Client  *s3.Client
	presigner *s3.PresignClient

	storageCfg storage.Config
	pg         *store.Postgres

	provisionSvc *provision.Service
	cleanupSvc   *cleanup.Service

	variantQueue *queue.Sender
	emitter      *events.Emitter
	exportJobs   *jobstore.Store

	lambdaClient    *lambda.Client
	exportLambdaArn string

	originVerifySecret string
)
