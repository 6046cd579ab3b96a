package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openautomations/dmcascan/internal/airtable"
	"github.com/openautomations/dmcascan/internal/analyze"
	"github.com/openautomations/dmcascan/internal/convert"
	"github.com/openautomations/dmcascan/internal/logger"
	"github.com/openautomations/dmcascan/internal/pipeline"
	"github.com/openautomations/dmcascan/internal/report"
	"github.com/openautomations/dmcascan/internal/tracking"
	"github.com/openautomations/dmcascan/internal/zendesk"
)

var (
	reportPath string
	skipUpload bool
	skipNotes  bool
	formID     string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetch open DMCA tickets, convert their URLs, and upload the results",
	Long: `Analyze runs the full pipeline: searches Zendesk for open tickets on the
configured DMCA form, extracts URLs from each description, converts the
marketplace URLs into canonical tokens, uploads one Airtable record per
converted URL, leaves a processing note on each analyzed ticket, and writes
a JSON report.

Without AIRTABLE_API_KEY the upload stage is skipped and the records are
only written to the report. With a configured PostgreSQL connection
(PG_HOST, PG_DATABASE, PG_USER, ...) previously processed tickets are
tracked and skipped on later runs.

Examples:
  dmcascan analyze
  dmcascan analyze --report results.json --skip-upload
  dmcascan analyze --skip-notes --form 360003074771`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&reportPath, "report", "", "report file path (default: dmca_analysis_<timestamp>.json)")
	analyzeCmd.Flags().BoolVar(&skipUpload, "skip-upload", false, "skip the Airtable upload stage")
	analyzeCmd.Flags().BoolVar(&skipNotes, "skip-notes", false, "do not leave processing notes on analyzed tickets")
	analyzeCmd.Flags().StringVar(&formID, "form", "", "override the configured Zendesk ticket form id")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if formID != "" {
		cfg.Zendesk.FormID = formID
	}

	if reportPath == "" {
		reportPath = cfg.Report.Path
	}

	if err := cfg.ValidateZendesk(); err != nil {
		return err
	}

	if err := cfg.ValidateAirtable(); err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if quiet {
		log = logger.Nop()
	}
	defer func() { _ = log.Sync() }()

	source := zendesk.New(cfg.Zendesk, log)
	builder := analyze.NewBuilder(convert.NewDefault())

	var uploader pipeline.Uploader = airtable.New(cfg.Airtable, log)
	if skipUpload {
		uploader = noUploader{}
	}

	ctx := context.Background()

	opts := []pipeline.Option{
		pipeline.WithReportPath(reportPath),
		pipeline.WithReportWriter(report.Write),
	}

	if !skipNotes {
		opts = append(opts, pipeline.WithProcessedNote(source, defaultNote))
	}

	if cfg.Postgres.Configured() {
		store, err := tracking.Open(ctx, cfg.Postgres, log)
		if err != nil {
			log.Warn("ticket tracking unavailable", zap.Error(err))
		} else {
			defer func() { _ = store.Close() }()

			if count, err := store.CountProcessed(ctx); err == nil {
				log.Info("ticket tracking active", zap.Int("previously_processed", count))
			}

			opts = append(opts, pipeline.WithTracker(store))
		}
	}

	p := pipeline.New(source, builder, uploader, log, opts...)

	records, summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	return outputAnalysis(records, summary)
}

// noUploader stands in for Airtable when --skip-upload is set.
type noUploader struct{}

func (noUploader) Enabled() bool { return false }

func (noUploader) Upload(context.Context, []airtable.Fields) (int, error) { return 0, nil }

func outputAnalysis(records []analyze.Record, summary pipeline.Summary) error {
	if output == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(struct {
			Records []analyze.Record `json:"records"`
			Summary pipeline.Summary `json:"summary"`
		}{Records: records, Summary: summary})
	}

	for _, rec := range records {
		fmt.Printf("\nTicket #%s\n", rec.TicketID)
		fmt.Printf("Subject: %s\n", rec.Subject)
		fmt.Printf("URLs found: %d\n", rec.TotalFound)
		fmt.Printf("URLs converted: %d\n", rec.TotalConverted)

		for _, cu := range rec.ConvertedURLs {
			fmt.Printf("  %s  (from %s)\n", cu.Converted, cu.OriginalURL)
		}
	}

	fmt.Printf("\nTickets analyzed: %d\n", summary.Tickets)
	fmt.Printf("Tickets skipped: %d\n", summary.Skipped)
	fmt.Printf("URLs found: %d\n", summary.URLsFound)
	fmt.Printf("URLs converted: %d\n", summary.Converted)
	fmt.Printf("Records uploaded: %d\n", summary.Uploaded)
	fmt.Printf("Notes added: %d\n", summary.NotesAdded)

	if summary.ReportPath != "" {
		fmt.Printf("Report: %s\n", summary.ReportPath)
	}

	return nil
}
