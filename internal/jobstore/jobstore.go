// Package jobstore provides persistent state for asynchronous export jobs.
// Export bundling runs in a separate Lambda invocation from the API request
// that started it, so job state must survive container recycling and
// concurrent invocations; it lives in DynamoDB with a single-table design.
//
// All records for a domain share a partition key (DOMAIN#{domain}); sort
// keys distinguish jobs (EXPORT#{jobId}). A TTL attribute (expiresAt)
// auto-deletes records after 24 hours — export bundles in S3 are lifecycled
// on the same schedule.
package jobstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// JobTTL is the time-to-live for job records, matching the exports bucket
// lifecycle policy.
const JobTTL = 24 * time.Hour

const (
	pkPrefix = "DOMAIN#"
	skExport = "EXPORT#"
)

// Export job statuses.
const (
	ExportPending    = "pending"
	ExportProcessing = "processing"
	ExportComplete   = "complete"
	ExportError      = "error"
)

// ExportBundle describes one ZIP produced by an export job.
type ExportBundle struct {
	Name        string `json:"name" dynamodbav:"name"`
	Key         string `json:"key,omitempty" dynamodbav:"key,omitempty"`
	FileCount   int    `json:"fileCount" dynamodbav:"fileCount"`
	TotalSize   int64  `json:"totalSize" dynamodbav:"totalSize"`
	Status      string `json:"status" dynamodbav:"status"`
	DownloadURL string `json:"downloadUrl,omitempty" dynamodbav:"downloadUrl,omitempty"`
}

// ExportJob tracks one marathon-wide export run (DynamoDB SK = EXPORT#{jobId}).
// ID and Domain are derived from PK/SK on read and excluded from item
// attributes on write.
type ExportJob struct {
	ID        string         `json:"id" dynamodbav:"-"`
	Domain    string         `json:"-" dynamodbav:"-"`
	Status    string         `json:"status" dynamodbav:"status"`
	Bundles   []ExportBundle `json:"bundles,omitempty" dynamodbav:"bundles,omitempty"`
	Error     string         `json:"error,omitempty" dynamodbav:"error,omitempty"`
	CreatedAt int64          `json:"createdAt" dynamodbav:"createdAt"`
}

// Store persists export jobs in DynamoDB. Each method is safe for concurrent
// use. Get returns (nil, nil) when the requested record does not exist; Put
// performs full-item replacement (upsert semantics).
type Store struct {
	client    *dynamodb.Client
	tableName string
}

// New creates a Store for the given table. The client should be initialized
// from the shared AWS config.
func New(client *dynamodb.Client, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

func domainPK(domain string) string {
	return pkPrefix + domain
}

func expiresAt() int64 {
	return time.Now().Add(JobTTL).Unix()
}

// PutExportJob creates or replaces an export job record.
func (s *Store) PutExportJob(ctx context.Context, domain string, job *ExportJob) error {
	item, err := attributevalue.MarshalMap(job)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	pk, sk := domainPK(domain), skExport+job.ID
	item["PK"] = &types.AttributeValueMemberS{Value: pk}
	item["SK"] = &types.AttributeValueMemberS{Value: sk}
	item["expiresAt"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt(), 10)}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem PK=%s SK=%s: %w", pk, sk, err)
	}
	return nil
}

// GetExportJob retrieves an export job. Returns nil, nil if not found.
func (s *Store) GetExportJob(ctx context.Context, domain, jobID string) (*ExportJob, error) {
	pk, sk := domainPK(domain), skExport+jobID
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem PK=%s SK=%s: %w", pk, sk, err)
	}
	if result.Item == nil {
		return nil, nil
	}

	job := &ExportJob{}
	if err := attributevalue.UnmarshalMap(result.Item, job); err != nil {
		return nil, fmt.Errorf("unmarshal PK=%s SK=%s: %w", pk, sk, err)
	}
	job.ID = jobID
	job.Domain = domain
	return job, nil
}

// SetExportError marks a job failed with the given message, preserving any
// bundles already recorded.
func (s *Store) SetExportError(ctx context.Context, domain, jobID, errMsg string) error {
	job, err := s.GetExportJob(ctx, domain, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		job = &ExportJob{ID: jobID, Domain: domain, CreatedAt: time.Now().Unix()}
	}
	job.Status = ExportError
	job.Error = errMsg
	return s.PutExportJob(ctx, domain, job)
}
