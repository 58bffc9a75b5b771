package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest policy documents into the semantic index",
	Long: `Extracts text from the given files (PDF, DOCX, EML, or plain
text), splits it into overlapping chunks, and rebuilds the vector
index. Unreadable files are skipped with a warning.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	count, err := a.ingest.Ingest(context.Background(), args)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d chunks from %d file(s).\n", count, len(args))
	return nil
}
