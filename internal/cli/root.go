// Package cli wires the cobra commands: the root command runs ingestion and
// the TUI, `ingest` and `ask` are one-shot surfaces over the same pipeline.
package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/OoVTo/foodrag/internal/config"
	"github.com/OoVTo/foodrag/internal/corpus"
	"github.com/OoVTo/foodrag/internal/domain"
	"github.com/OoVTo/foodrag/internal/ollama"
	"github.com/OoVTo/foodrag/internal/service"
	"github.com/OoVTo/foodrag/internal/tui"
	"github.com/OoVTo/foodrag/internal/vectorstore/memory"
	"github.com/OoVTo/foodrag/internal/vectorstore/qdrant"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "foodrag",
	Short: "Ask questions about a food corpus with local retrieval-augmented generation",
	Long: `foodrag embeds a JSON corpus of food descriptions into a Qdrant
collection via a local Ollama server and answers questions by retrieving the
closest documents and prompting a local LLM with them.

Without a subcommand it ingests the corpus and starts the terminal UI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default: ./config.yaml, then ~/.config/foodrag/config.yaml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, pipeline, err := buildPipeline()
	if err != nil {
		return err
	}
	// Ingestion completes before any question is accepted; the pipeline
	// assumes no concurrent ingest and query.
	if _, err := pipeline.Ingest(cmd.Context()); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	m := tui.New(pipeline, cfg.TopK)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

// buildPipeline loads config and corpus and assembles the pipeline with the
// configured index implementation.
func buildPipeline() (*config.AppConfig, *service.Pipeline, error) {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	records, err := corpus.Load(cfg.Corpus)
	if err != nil {
		return nil, nil, err
	}

	client := ollama.NewClient(ollama.Config{
		BaseURL:         cfg.Ollama.BaseURL,
		EmbedModel:      cfg.Ollama.EmbedModel,
		LLMModel:        cfg.Ollama.LLMModel,
		EmbedTimeout:    secs(cfg.Ollama.EmbedTimeoutSecs),
		GenerateTimeout: secs(cfg.Ollama.GenerateTimeoutSecs),
	})

	index, err := buildIndex(cfg)
	if err != nil {
		return nil, nil, err
	}

	return cfg, service.NewPipeline(client, client, index, records), nil
}

func buildIndex(cfg *config.AppConfig) (domain.DocumentIndex, error) {
	switch cfg.Index.Type {
	case "qdrant", "":
		if cfg.Index.Qdrant == nil {
			return nil, fmt.Errorf("qdrant index config missing")
		}
		return qdrant.NewStore(qdrant.Config{
			URL:        cfg.Index.Qdrant.URL,
			APIKey:     cfg.Index.Qdrant.APIKey,
			Collection: cfg.Index.Qdrant.Collection,
			Timeout:    secs(cfg.Index.Qdrant.TimeoutSecs),
		}), nil
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown index type: %s", cfg.Index.Type)
	}
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}
