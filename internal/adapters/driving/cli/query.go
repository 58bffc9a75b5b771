package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clausewise/clausewise-cli/internal/core/ports/driving"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [claim query]",
	Short: "Answer a natural-language claim query",
	Long: `Parses the query into structured fields, retrieves the most
similar policy clauses, and evaluates an approve/reject decision
with a clause-by-clause justification.

Example:
  clausewise query "46M, knee surgery, Pune, 3-month policy"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of clauses to retrieve (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the decision as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	topK := queryTopK
	if topK < 1 {
		topK = a.topK
	}

	outcome, err := a.query.Query(context.Background(), args[0], topK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, outcome)
	}
	return outputQueryText(cmd, outcome)
}

// outputQueryJSON prints only the unified response, with the keys
// decision, amount, justification.
func outputQueryJSON(cmd *cobra.Command, outcome *driving.QueryOutcome) error {
	data, err := json.MarshalIndent(outcome.Response, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, outcome *driving.QueryOutcome) error {
	if len(outcome.Fields) > 0 {
		cmd.Println("Parsed fields:")
		for _, name := range sortedKeys(outcome.Fields) {
			cmd.Printf("  %-16s %s\n", name+":", outcome.Fields[name])
		}
		cmd.Println()
	}

	cmd.Printf("Decision: %s\n", outcome.Response.Decision)
	if outcome.Response.Amount != nil {
		cmd.Printf("Amount:   %.2f\n", *outcome.Response.Amount)
	}

	if len(outcome.Response.Justification) > 0 {
		cmd.Println("\nJustification:")
		for _, clause := range outcome.Response.Justification {
			cmd.Printf("  [%s] %s\n", clause.ClauseID, truncate(clause.Text, 120))
			if clause.UsedFor != "" {
				cmd.Printf("      used for: %s\n", clause.UsedFor)
			}
			if clause.SourcePath != "" {
				cmd.Printf("      source: %s\n", clause.SourcePath)
			}
		}
	}
	return nil
}

// sortedKeys returns map keys in stable order for display.
func sortedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// truncate shortens s to max characters for single-line display.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
