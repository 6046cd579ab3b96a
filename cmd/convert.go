package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openautomations/dmcascan/internal/convert"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <url>",
	Short: "Convert a single marketplace URL to its canonical token",
	Long: `Convert normalizes one marketplace URL into the canonical CHAIN-identifier
token used by the moderation automation.

Examples:
  dmcascan convert https://opensea.io/assets/ethereum/0xabc123/1234
  dmcascan convert https://rarible.com/token/polygon/0xdef456:789
  dmcascan convert --output json https://rarible.fun/collections/base/0x789abc`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	result := convert.NewDefault().Convert(args[0])

	if output == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(result)
	}

	if !result.Converted() {
		fmt.Fprintf(os.Stderr, "unmatched: %s (%s)\n", result.Original, result.Reason)
		os.Exit(1)
	}

	fmt.Println(result.Token)

	return nil
}
