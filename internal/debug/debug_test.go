package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState() func() {
	originalDebug := EnableDebug
	originalMode := MCPMode
	originalLogger := debugLogger
	originalFile := debugFile
	return func() {
		EnableDebug = originalDebug
		MCPMode = originalMode
		debugLogger = originalLogger
		debugFile = originalFile
	}
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState()()
	t.Setenv("DEBUG", "")

	EnableDebug = "false"
	MCPMode = false
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	assert.True(t, IsDebugEnabled())

	// MCP mode always wins
	SetMCPMode(true)
	assert.False(t, IsDebugEnabled())
}

func TestIsDebugEnabledFromEnv(t *testing.T) {
	defer saveAndRestoreState()()
	EnableDebug = "false"
	MCPMode = false

	t.Setenv("DEBUG", "1")
	assert.True(t, IsDebugEnabled())
}

func TestLogWritesComponent(t *testing.T) {
	defer saveAndRestoreState()()
	EnableDebug = "true"
	MCPMode = false

	var buf bytes.Buffer
	SetDebugOutput(&buf)

	LogIndex("built vocabulary of %d terms\n", 42)
	require.NoError(t, Logger().Sync())

	out := buf.String()
	assert.Contains(t, out, "built vocabulary of 42 terms")
	assert.Contains(t, out, "INDEX")
}

func TestLogDisabledProducesNothing(t *testing.T) {
	defer saveAndRestoreState()()
	t.Setenv("DEBUG", "")
	EnableDebug = "false"
	MCPMode = false

	var buf bytes.Buffer
	SetDebugOutput(&buf)

	Printf("should not appear")
	LogQuery("nor this")
	assert.Empty(t, buf.String())
}

func TestInitDebugLogFile(t *testing.T) {
	defer saveAndRestoreState()()
	EnableDebug = "true"
	MCPMode = false

	path, err := InitDebugLogFile(t.TempDir())
	require.NoError(t, err)

	LogIngest("scanned %d files", 3)
	LogMCP("tool call %s", "rank_similar")
	require.NoError(t, CloseDebugLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scanned 3 files")
	assert.Contains(t, string(data), "tool call rank_similar")
	assert.Equal(t, ".log", filepath.Ext(path))
}
