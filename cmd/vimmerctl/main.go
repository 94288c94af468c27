// Package main provides vimmerctl, the operator CLI for the submission
// platform. It owns schema migrations and the administrative setup the
// Lambdas never perform: creating marathons, competition classes, and
// participants, re-enqueueing variant generation, and tailing Lambda logs.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/strandhvilliam/vimmer-sub007/internal/logging"
	"github.com/strandhvilliam/vimmer-sub007/internal/store"
)

// CLI flags shared across subcommands.
var dsnFlag string

var rootCmd = &cobra.Command{
	Use:   "vimmerctl",
	Short: "Operator tooling for the photo marathon submission platform",
	Long: `vimmerctl manages the submission platform's durable state and workers.

It runs schema migrations, registers marathons, classes and participants,
re-enqueues variant generation for submissions, and tails Lambda logs.

Examples:
  vimmerctl migrate
  vimmerctl marathon create --domain gbg2026 --name "Göteborg 2026" --starts 2026-05-01T08:00:00Z --ends 2026-05-02T08:00:00Z
  vimmerctl class create --domain gbg2026 --name "24 hours" --photos 24
  vimmerctl participant create --domain gbg2026 --ref 42 --class <class-id>
  vimmerctl reprocess --domain gbg2026 --key gbg2026/0042/01/0042_01.jpg
  vimmerctl logs --group /aws/lambda/variant-lambda --since 1h`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "Postgres DSN (defaults to DATABASE_DSN)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore opens the Postgres store from --dsn or DATABASE_DSN. Fatals when
// neither is set.
func openStore() *store.Postgres {
	dsn := dsnFlag
	if dsn == "" {
		dsn = os.Getenv("DATABASE_DSN")
	}
	if dsn == "" {
		log.Fatal().Msg("Postgres DSN required: pass --dsn or set DATABASE_DSN")
	}
	pg, err := store.Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open Postgres store")
	}
	return pg
}

// loadAWSConfig loads the default AWS config for commands that talk to AWS.
func loadAWSConfig(ctx context.Context) aws.Config {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	return cfg
}
