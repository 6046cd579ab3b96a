package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openautomations/dmcascan/internal/chains"
)

// chainsCmd represents the chains command
var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List the supported chains and their URL slug aliases",
	Long: `The chains command lists every canonical chain the converter knows about,
together with the slug spellings marketplaces use for it in URLs.

Examples:
  dmcascan chains
  dmcascan chains --output json`,
	RunE: runChains,
}

func init() {
	rootCmd.AddCommand(chainsCmd)
}

func runChains(cmd *cobra.Command, args []string) error {
	table := chains.Default().Chains()

	if output == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(struct {
			Chains []chains.Chain `json:"chains"`
			Count  int            `json:"count"`
		}{Chains: table, Count: len(table)})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN\tALIASES")

	for _, c := range table {
		fmt.Fprintf(w, "%s\t%s\n", c.Name, strings.Join(c.Aliases, ", "))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "%d chains registered\n", len(table))
	}

	return nil
}
