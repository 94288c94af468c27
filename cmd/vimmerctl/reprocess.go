package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/strandhvilliam/vimmer-sub007/internal/queue"
	"github.com/strandhvilliam/vimmer-sub007/internal/store"
	"github.com/strandhvilliam/vimmer-sub007/internal/subkey"
)

var (
	reprocessDomainFlag string
	reprocessKeysFlag   []string
	reprocessRefFlag    string
	reprocessQueueFlag  string
)

// reprocessCmd re-enqueues variant generation. With no --key or --ref it
// covers every uploaded submission in the domain. Variant keys are derived
// from the submission key, so regenerated thumbnails and previews overwrite
// the old objects. Useful after a variant Lambda bug fix or a dead-letter
// drain.
var reprocessCmd = &cobra.Command{
	Use:   "reprocess",
	Short: "Re-enqueue variant generation for submissions",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		queueURL := reprocessQueueFlag
		if queueURL == "" {
			queueURL = os.Getenv("VARIANT_QUEUE_URL")
		}
		if queueURL == "" {
			log.Fatal().Msg("Variant queue URL required: pass --queue or set VARIANT_QUEUE_URL")
		}

		keys := reprocessKeysFlag
		if len(keys) == 0 {
			pg := openStore()
			defer pg.Close()

			var subs []*store.Submission
			if reprocessRefFlag != "" {
				participant, err := pg.Participants.GetByReference(ctx, reprocessDomainFlag, reprocessRefFlag)
				if err != nil {
					log.Fatal().Err(err).Msg("Participant lookup failed")
				}
				subs, err = pg.Submissions.ListByParticipant(ctx, participant.ID)
				if err != nil {
					log.Fatal().Err(err).Msg("Failed to list submissions")
				}
			} else {
				var err error
				subs, err = pg.Submissions.ListUploadedByDomain(ctx, reprocessDomainFlag)
				if err != nil {
					log.Fatal().Err(err).Msg("Failed to list submissions")
				}
			}
			for _, sub := range subs {
				if sub.Status != store.StatusPending {
					keys = append(keys, sub.Key)
				}
			}
		}
		if len(keys) == 0 {
			log.Fatal().Msg("Nothing to reprocess: no uploaded submissions matched")
		}

		sender := queue.NewSender(sqs.NewFromConfig(loadAWSConfig(ctx)), queueURL)

		enqueued := 0
		for _, key := range keys {
			parsed, err := subkey.Parse(key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Skipping malformed key")
				continue
			}
			if parsed.Domain != reprocessDomainFlag {
				log.Warn().Str("key", key).Msg("Skipping key outside domain")
				continue
			}
			if err := sender.EnqueueVariant(ctx, reprocessDomainFlag, key); err != nil {
				log.Error().Err(err).Str("key", key).Msg("Failed to enqueue")
				continue
			}
			enqueued++
		}
		fmt.Printf("Enqueued %d of %d submissions for reprocessing.\n", enqueued, len(keys))
	},
}

func init() {
	reprocessCmd.Flags().StringVar(&reprocessDomainFlag, "domain", "", "Tenant domain slug")
	reprocessCmd.Flags().StringSliceVar(&reprocessKeysFlag, "key", nil, "Submission key (repeatable)")
	reprocessCmd.Flags().StringVar(&reprocessRefFlag, "ref", "", "Reprocess all of one participant's uploaded submissions")
	reprocessCmd.Flags().StringVar(&reprocessQueueFlag, "queue", "", "Variant queue URL (defaults to VARIANT_QUEUE_URL)")
	reprocessCmd.MarkFlagRequired("domain")
	rootCmd.AddCommand(reprocessCmd)
}
