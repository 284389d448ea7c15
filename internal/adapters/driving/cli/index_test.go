package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexStatsCmd_PrintsStats(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "stats"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "rag-documents")
	assert.Contains(t, out, "Records:   42")
	assert.Contains(t, out, "Dimension: 1536")
}

func TestIndexEnsureCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	admin := &mockIndexAdmin{}
	indexAdmin = admin

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "ensure"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, admin.ensured)
	assert.Contains(t, buf.String(), "Index is ready.")
}

func TestIndexResetCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	admin := &mockIndexAdmin{}
	indexAdmin = admin

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "reset"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, admin.resetDone)
	assert.Contains(t, buf.String(), "Index reset.")
}
