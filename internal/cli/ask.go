package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the grounded answer",
	Long: `Embeds the question, retrieves the nearest indexed documents and
prompts the LLM with them. The index must already be populated (run ingest
first, or use the default TUI mode which ingests on startup).`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "n", 3, "number of documents to retrieve")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	_, pipeline, err := buildPipeline()
	if err != nil {
		return err
	}

	result, err := pipeline.Answer(cmd.Context(), args[0], askTopK)
	if err != nil {
		return err
	}

	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintln(cmd.OutOrStdout(), "Retrieved Documents:")
	for i, src := range result.Sources {
		fmt.Fprintf(cmd.OutOrStdout(), "  [%d] %s: %s\n", i+1, src.ID, src.Text)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	heading.Fprintln(cmd.OutOrStdout(), "Answer:")
	fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
	return nil
}
