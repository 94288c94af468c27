// Package queue sends variant-generation work to SQS. After a client
// confirms an upload the submission Lambda enqueues a VariantMessage and the
// variant Lambda consumes it out of band.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
)

// VariantMessage is the body of every message on the variant queue.
type VariantMessage struct {
	Domain string `json:"domain"`
	Key    string `json:"key"`
}

// Sender enqueues variant jobs on one SQS queue.
type Sender struct {
	client   *sqs.Client
	queueURL string
}

// NewSender creates a Sender for the given queue URL.
func NewSender(client *sqs.Client, queueURL string) *Sender {
	return &Sender{client: client, queueURL: queueURL}
}

// EnqueueVariant submits one submission key for variant generation.
func (s *Sender) EnqueueVariant(ctx context.Context, domain, key string) error {
	body, err := json.Marshal(VariantMessage{Domain: domain, Key: key})
	if err != nil {
		return fmt.Errorf("marshal variant message: %w", err)
	}

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("send variant message for %s: %w", key, err)
	}

	log.Debug().Str("key", key).Str("domain", domain).Msg("Variant job enqueued")
	return nil
}
