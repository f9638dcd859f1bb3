package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Reconcile the corpus against the document index",
	Long: `Computes which corpus records are not yet in the index, embeds them
and inserts them. Records already present are skipped, so re-running after an
interrupted ingest completes the remainder without duplicates.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	_, pipeline, err := buildPipeline()
	if err != nil {
		return err
	}

	inserted, err := pipeline.Ingest(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingest failed after %d inserts: %w", inserted, err)
	}

	if inserted == 0 {
		color.Green("All %d documents already indexed.", pipeline.CorpusSize())
		return nil
	}
	color.Green("Indexed %d new documents (%d already present).", inserted, pipeline.CorpusSize()-inserted)
	return nil
}
