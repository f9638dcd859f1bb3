package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OoVTo/foodrag/internal/config"
	"github.com/OoVTo/foodrag/internal/vectorstore/memory"
	"github.com/OoVTo/foodrag/internal/vectorstore/qdrant"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["ingest"])
	assert.True(t, names["ask"])
}

func TestRootCmd_HasConfigFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
}

func TestAskCmd_Args(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
	assert.Error(t, askCmd.Args(askCmd, nil))
	assert.NoError(t, askCmd.Args(askCmd, []string{"What is sushi?"}))
	assert.Error(t, askCmd.Args(askCmd, []string{"a", "b"}))
}

func TestAskCmd_TopKFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "3", flag.DefValue)
}

func TestBuildIndex(t *testing.T) {
	cfg := &config.AppConfig{Index: config.IndexConfig{Type: "memory"}}
	index, err := buildIndex(cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, index)

	cfg = &config.AppConfig{Index: config.IndexConfig{
		Type:   "qdrant",
		Qdrant: &config.QdrantConfig{URL: "http://localhost:6333", Collection: "foods"},
	}}
	index, err = buildIndex(cfg)
	require.NoError(t, err)
	assert.IsType(t, &qdrant.Store{}, index)

	cfg = &config.AppConfig{Index: config.IndexConfig{Type: "bogus"}}
	_, err = buildIndex(cfg)
	require.Error(t, err)
}

func TestBuildPipeline_LoadsCorpus(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "foods.json")
	require.NoError(t, os.WriteFile(corpusPath, []byte(`[{"id":"f1","text":"Sushi."}]`), 0o644))

	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("corpus: "+corpusPath+"\nindex:\n  type: memory\n"), 0o644))

	cfgPath = cfgFile
	defer func() { cfgPath = "" }()

	cfg, pipeline, err := buildPipeline()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 1, pipeline.CorpusSize())
}

func TestBuildPipeline_MissingCorpus(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("corpus: "+filepath.Join(dir, "absent.json")+"\nindex:\n  type: memory\n"), 0o644))

	cfgPath = cfgFile
	defer func() { cfgPath = "" }()

	_, _, err := buildPipeline()
	require.Error(t, err)
}
