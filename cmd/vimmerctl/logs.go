package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logsGroupFlag  string
	logsSinceFlag  time.Duration
	logsFilterFlag string
	logsLimitFlag  int
)

// logsCmd fetches recent log events from a Lambda's CloudWatch log group.
// Lambdas log single-line JSON (zerolog and EMF), so output pipes cleanly
// into jq.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Fetch recent Lambda log events",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := cloudwatchlogs.NewFromConfig(loadAWSConfig(ctx))

		startTime := time.Now().Add(-logsSinceFlag).UnixMilli()

		input := &cloudwatchlogs.FilterLogEventsInput{
			LogGroupName: aws.String(logsGroupFlag),
			StartTime:    aws.Int64(startTime),
		}
		if logsFilterFlag != "" {
			input.FilterPattern = aws.String(logsFilterFlag)
		}

		printed := 0
		for {
			result, err := client.FilterLogEvents(ctx, input)
			if err != nil {
				log.Fatal().Err(err).Str("group", logsGroupFlag).Msg("FilterLogEvents failed")
			}

			for _, event := range result.Events {
				fmt.Print(aws.ToString(event.Message))
				printed++
				if logsLimitFlag > 0 && printed >= logsLimitFlag {
					return
				}
			}

			if result.NextToken == nil {
				break
			}
			input.NextToken = result.NextToken
		}

		if printed == 0 {
			fmt.Println("No log events found.")
		}
	},
}

func init() {
	logsCmd.Flags().StringVar(&logsGroupFlag, "group", "", "CloudWatch log group name (e.g. /aws/lambda/variant-lambda)")
	logsCmd.Flags().DurationVar(&logsSinceFlag, "since", time.Hour, "How far back to fetch")
	logsCmd.Flags().StringVar(&logsFilterFlag, "filter", "", "CloudWatch filter pattern")
	logsCmd.Flags().IntVar(&logsLimitFlag, "limit", 0, "Maximum events to print (0 = unlimited)")
	logsCmd.MarkFlagRequired("group")
	rootCmd.AddCommand(logsCmd)
}
