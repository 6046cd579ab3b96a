package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openautomations/dmcascan/internal/convert"
	"github.com/openautomations/dmcascan/internal/extract"
)

var convertExtracted bool

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract URLs from free-form text",
	Long: `Extract scans text for http(s) URLs, strips trailing punctuation, removes
duplicates, and prints them in first-appearance order. With --convert each
URL is also run through the marketplace converter; URLs that do not convert
are listed as unmatched instead of being dropped.

Reads from the file argument, or from stdin when no file is given.

Examples:
  dmcascan extract ticket.txt
  dmcascan extract --convert ticket.txt
  cat ticket.txt | dmcascan extract --convert --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&convertExtracted, "convert", false, "convert extracted URLs to canonical tokens")
}

func runExtract(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)

	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	urls := extract.URLs(string(data))

	if !convertExtracted {
		return outputExtracted(urls)
	}

	converter := convert.NewDefault()

	results := make([]convert.Result, 0, len(urls))
	for _, u := range urls {
		results = append(results, converter.Convert(u))
	}

	return outputConverted(results)
}

func outputExtracted(urls []string) error {
	if output == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(struct {
			URLs  []string `json:"urls"`
			Count int      `json:"count"`
		}{URLs: urls, Count: len(urls)})
	}

	for _, u := range urls {
		fmt.Println(u)
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "%d URLs found\n", len(urls))
	}

	return nil
}

func outputConverted(results []convert.Result) error {
	if output == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(results)
	}

	converted := 0

	for _, r := range results {
		if r.Converted() {
			converted++

			fmt.Printf("%s  (from %s)\n", r.Token, r.Original)

			continue
		}

		fmt.Printf("unmatched: %s (%s)\n", r.Original, r.Reason)
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "%d URLs found, %d converted\n", len(results), converted)
	}

	return nil
}
