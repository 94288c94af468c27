package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/strandhvilliam/vimmer-sub007/internal/store"
)

// --- migrate ---

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		pg := openStore()
		defer pg.Close()

		if err := pg.RunMigrations(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Migrations failed")
		}
		fmt.Println("Migrations applied.")
	},
}

// --- marathon ---

var (
	marathonDomainFlag string
	marathonNameFlag   string
	marathonStartsFlag string
	marathonEndsFlag   string
)

var marathonCmd = &cobra.Command{
	Use:   "marathon",
	Short: "Manage marathons",
}

var marathonCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new marathon under a tenant domain",
	Run: func(cmd *cobra.Command, args []string) {
		startsAt, err := time.Parse(time.RFC3339, marathonStartsFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --starts; use RFC3339 (2026-05-01T08:00:00Z)")
		}
		endsAt, err := time.Parse(time.RFC3339, marathonEndsFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --ends; use RFC3339 (2026-05-02T08:00:00Z)")
		}
		if !endsAt.After(startsAt) {
			log.Fatal().Msg("--ends must be after --starts")
		}

		pg := openStore()
		defer pg.Close()

		m := &store.Marathon{
			Domain:   marathonDomainFlag,
			Name:     marathonNameFlag,
			StartsAt: startsAt,
			EndsAt:   endsAt,
		}
		if err := pg.Marathons.Create(context.Background(), m); err != nil {
			log.Fatal().Err(err).Msg("Failed to create marathon")
		}
		fmt.Printf("Marathon created: %s (%s)\n", m.Domain, m.ID)
	},
}

// --- class ---

var (
	classDomainFlag string
	classNameFlag   string
	classPhotosFlag int
)

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "Manage competition classes",
}

var classCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a competition class",
	Run: func(cmd *cobra.Command, args []string) {
		if classPhotosFlag <= 0 {
			log.Fatal().Msg("--photos must be positive")
		}

		pg := openStore()
		defer pg.Close()

		c := &store.CompetitionClass{
			Domain:     classDomainFlag,
			Name:       classNameFlag,
			PhotoCount: classPhotosFlag,
		}
		if err := pg.Classes.Create(context.Background(), c); err != nil {
			log.Fatal().Err(err).Msg("Failed to create class")
		}
		fmt.Printf("Class created: %s (%s), %d photos\n", c.Name, c.ID, c.PhotoCount)
	},
}

var classListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a marathon's competition classes",
	Run: func(cmd *cobra.Command, args []string) {
		pg := openStore()
		defer pg.Close()

		classes, err := pg.Classes.ListByDomain(context.Background(), classDomainFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list classes")
		}
		if len(classes) == 0 {
			fmt.Println("No classes found.")
			return
		}
		for _, c := range classes {
			fmt.Printf("%s  %-30s %d photos\n", c.ID, c.Name, c.PhotoCount)
		}
	},
}

// --- participant ---

var (
	participantDomainFlag string
	participantRefFlag    string
	participantClassFlag  string
)

var participantCmd = &cobra.Command{
	Use:   "participant",
	Short: "Manage participants",
}

var participantCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a participant with a reference code",
	Run: func(cmd *cobra.Command, args []string) {
		pg := openStore()
		defer pg.Close()

		// Fail early on a bad class ID rather than at first provision.
		if _, err := pg.Classes.GetByID(context.Background(), participantClassFlag); err != nil {
			log.Fatal().Err(err).Msg("Class lookup failed")
		}

		p := &store.Participant{
			Domain:    participantDomainFlag,
			Reference: participantRefFlag,
			ClassID:   participantClassFlag,
		}
		if err := pg.Participants.Create(context.Background(), p); err != nil {
			log.Fatal().Err(err).Msg("Failed to create participant")
		}
		fmt.Printf("Participant created: %s/%s (%s)\n", p.Domain, p.Reference, p.ID)
	},
}

func init() {
	marathonCreateCmd.Flags().StringVar(&marathonDomainFlag, "domain", "", "Tenant domain slug")
	marathonCreateCmd.Flags().StringVar(&marathonNameFlag, "name", "", "Display name")
	marathonCreateCmd.Flags().StringVar(&marathonStartsFlag, "starts", "", "Start time (RFC3339)")
	marathonCreateCmd.Flags().StringVar(&marathonEndsFlag, "ends", "", "End time (RFC3339)")
	marathonCreateCmd.MarkFlagRequired("domain")
	marathonCreateCmd.MarkFlagRequired("name")
	marathonCreateCmd.MarkFlagRequired("starts")
	marathonCreateCmd.MarkFlagRequired("ends")
	marathonCmd.AddCommand(marathonCreateCmd)

	classCreateCmd.Flags().StringVar(&classDomainFlag, "domain", "", "Tenant domain slug")
	classCreateCmd.Flags().StringVar(&classNameFlag, "name", "", "Class name")
	classCreateCmd.Flags().IntVar(&classPhotosFlag, "photos", 0, "Required photo count")
	classCreateCmd.MarkFlagRequired("domain")
	classCreateCmd.MarkFlagRequired("name")
	classCreateCmd.MarkFlagRequired("photos")
	classListCmd.Flags().StringVar(&classDomainFlag, "domain", "", "Tenant domain slug")
	classListCmd.MarkFlagRequired("domain")
	classCmd.AddCommand(classCreateCmd, classListCmd)

	participantCreateCmd.Flags().StringVar(&participantDomainFlag, "domain", "", "Tenant domain slug")
	participantCreateCmd.Flags().StringVar(&participantRefFlag, "ref", "", "Participant reference code")
	participantCreateCmd.Flags().StringVar(&participantClassFlag, "class", "", "Competition class ID")
	participantCreateCmd.MarkFlagRequired("domain")
	participantCreateCmd.MarkFlagRequired("ref")
	participantCreateCmd.MarkFlagRequired("class")
	participantCmd.AddCommand(participantCreateCmd)

	rootCmd.AddCommand(migrateCmd, marathonCmd, classCmd, participantCmd)
}
