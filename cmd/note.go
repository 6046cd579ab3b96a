package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openautomations/dmcascan/internal/logger"
	"github.com/openautomations/dmcascan/internal/zendesk"
)

// defaultNote marks a ticket as handled by the automation.
const defaultNote = "OpenAutomations: DMCA request is processed"

var noteText string

// noteCmd represents the note command
var noteCmd = &cobra.Command{
	Use:   "note <ticket-id>",
	Short: "Add an internal processing note to a Zendesk ticket",
	Long: `Note attaches a private comment to a ticket, invisible to the requester,
marking the DMCA request as processed by the automation.

Examples:
  dmcascan note 107289
  dmcascan note --message "escalated to legal" 107289`,
	Args: cobra.ExactArgs(1),
	RunE: runNote,
}

func init() {
	rootCmd.AddCommand(noteCmd)

	noteCmd.Flags().StringVarP(&noteText, "message", "m", defaultNote, "note text to attach")
}

func runNote(cmd *cobra.Command, args []string) error {
	ticketID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ticket id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.ValidateZendesk(); err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if quiet {
		log = logger.Nop()
	}
	defer func() { _ = log.Sync() }()

	client := zendesk.New(cfg.Zendesk, log)
	ctx := context.Background()

	// Verify the ticket exists before commenting on it.
	ticket, err := client.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}

	if err := client.AddInternalNote(ctx, ticket.ID, noteText); err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("Added internal note to ticket #%d (%s)\n", ticket.ID, ticket.Subject)
	}

	return nil
}
