package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foods.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCorpus(t, `[
		{"id": "f1", "text": "Sushi.", "region": "Japan", "type": "seafood"},
		{"id": "f2", "text": "Pizza."}
	]`)

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "f1", records[0].ID)
	assert.Equal(t, "Sushi.", records[0].Text)
	assert.Equal(t, "Japan", records[0].Region)
	assert.Equal(t, "seafood", records[0].Type)

	assert.Equal(t, "f2", records[1].ID)
	assert.Empty(t, records[1].Region)
	assert.Empty(t, records[1].Type)
}

func TestLoad_PreservesOrder(t *testing.T) {
	path := writeCorpus(t, `[{"id":"z","text":"1"},{"id":"a","text":"2"},{"id":"m","text":"3"}]`)

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "z", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
	assert.Equal(t, "m", records[2].ID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeCorpus(t, `{"not": "an array"}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EmptyID(t *testing.T) {
	path := writeCorpus(t, `[{"id":"","text":"no id"}]`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
}

func TestLoad_DuplicateID(t *testing.T) {
	path := writeCorpus(t, `[{"id":"f1","text":"a"},{"id":"f1","text":"b"}]`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}
