// Package events publishes submission lifecycle events to EventBridge so
// downstream consumers (verification dashboards, notification fan-out) can
// react without being called inline.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	eventbridgetypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/rs/zerolog/log"
)

// Source is the EventBridge source attribute for all platform events.
const Source = "vimmer-submissions"

// Detail types.
const (
	TypeSubmissionUploaded  = "SubmissionUploaded"
	TypeSubmissionProcessed = "SubmissionProcessed"
	TypeExportCompleted     = "ExportCompleted"
)

// SubmissionUploaded is emitted when a client confirms its direct upload.
type SubmissionUploaded struct {
	Domain string `json:"domain"`
	Key    string `json:"key"`
}

// SubmissionProcessed is emitted when variant generation for a submission
// completes.
type SubmissionProcessed struct {
	Domain       string `json:"domain"`
	Key          string `json:"key"`
	ThumbnailKey string `json:"thumbnailKey"`
	PreviewKey   string `json:"previewKey"`
}

// ExportCompleted is emitted when an export job finishes bundling.
type ExportCompleted struct {
	Domain    string `json:"domain"`
	JobID     string `json:"jobId"`
	Bundles   int    `json:"bundles"`
	FileCount int    `json:"fileCount"`
}

// Emitter publishes events to one EventBridge bus. A nil Emitter is a no-op,
// so Lambdas can run with events disabled in dev.
type Emitter struct {
	client  *eventbridge.Client
	busName string
}

// NewEmitter creates an Emitter. busName may be empty to target the default bus.
func NewEmitter(client *eventbridge.Client, busName string) *Emitter {
	return &Emitter{client: client, busName: busName}
}

// Emit publishes one event with the given detail type. Failures are returned
// but most call sites log and continue — events are advisory, not part of
// the request's correctness.
func (e *Emitter) Emit(ctx context.Context, detailType string, detail any) error {
	if e == nil {
		return nil
	}

	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", detailType, err)
	}

	entry := eventbridgetypes.PutEventsRequestEntry{
		Source:     aws.String(Source),
		DetailType: aws.String(detailType),
		Detail:     aws.String(string(payload)),
	}
	if e.busName != "" {
		entry.EventBusName = aws.String(e.busName)
	}

	result, err := e.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []eventbridgetypes.PutEventsRequestEntry{entry},
	})
	if err != nil {
		log.Error().Err(err).Str("detailType", detailType).Msg("EventBridge PutEvents failed")
		return fmt.Errorf("PutEvents: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for i, e := range result.Entries {
			if e.ErrorCode != nil || e.ErrorMessage != nil {
				log.Error().
					Int("index", i).
					Str("errorCode", aws.ToString(e.ErrorCode)).
					Str("errorMessage", aws.ToString(e.ErrorMessage)).
					Str("detailType", detailType).
					Msg("EventBridge PutEvents entry failed")
				return fmt.Errorf("PutEvents entry %d failed: %s - %s", i, aws.ToString(e.ErrorCode), aws.ToString(e.ErrorMessage))
			}
		}
	}

	log.Debug().Str("detailType", detailType).Msg("Event emitted to EventBridge")
	return nil
}
