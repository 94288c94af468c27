package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasvc "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/rs/zerolog/log"
)

// exportEvent is the payload the export Lambda receives.
type exportEvent struct {
	Domain string `json:"domain"`
	JobID  string `json:"jobId"`
}

// invokeExportAsync dispatches an export job to the export Lambda. Uses
// InvocationType=Event so the API returns immediately without waiting for
// bundling to finish.
func invokeExportAsync(ctx context.Context, domain, jobID string) error {
	if lambdaClient == nil || exportLambdaArn == "" {
		return fmt.Errorf("export lambda not configured")
	}

	payload, err := json.Marshal(exportEvent{Domain: domain, JobID: jobID})
	if err != nil {
		return fmt.Errorf("marshal export event: %w", err)
	}

	_, err = lambdaClient.Invoke(ctx, &lambdasvc.InvokeInput{
		FunctionName:   aws.String(exportLambdaArn),
		InvocationType: lambdatypes.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		log.Error().Err(err).Str("jobId", jobID).Msg("Failed to invoke export Lambda")
		return fmt.Errorf("invoke export lambda: %w", err)
	}

	log.Debug().Str("jobId", jobID).Str("domain", domain).Msg("Export Lambda invoked asynchronously")
	return nil
}
