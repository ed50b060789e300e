package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/standardbeagle/semcouple/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// MCPMode tracks if we're running as an MCP stdio server (set by main)
var MCPMode = false

var (
	debugMutex  sync.Mutex
	debugLogger = zap.NewNop()
	debugFile   *os.File
)

// SetMCPMode enables MCP mode which suppresses all debug output
func SetMCPMode(enabled bool) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	MCPMode = enabled
}

// SetDebugOutput routes debug output to w. Pass nil to disable output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	if w == nil {
		debugLogger = zap.NewNop()
		return
	}
	debugLogger = newLogger(zapcore.AddSync(w))
}

// InitDebugLogFile initializes debug logging to a timestamped file under dir
// (os.TempDir when empty) and returns its path. Call CloseDebugLog when done.
func InitDebugLogFile(dir string) (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if dir == "" {
		dir = filepath.Join(os.TempDir(), "semcouple-debug-logs")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02T150405")
	logPath := filepath.Join(dir, fmt.Sprintf("debug-%s.log", timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugFile = file
	debugLogger = newLogger(zapcore.AddSync(file))
	return logPath, nil
}

// CloseDebugLog flushes the logger and closes the debug log file if one is open.
func CloseDebugLog() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	_ = debugLogger.Sync()
	debugLogger = zap.NewNop()
	if debugFile != nil {
		err := debugFile.Close()
		debugFile = nil
		return err
	}
	return nil
}

func newLogger(ws zapcore.WriteSyncer) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, zapcore.DebugLevel)
	return zap.New(core)
}

// IsDebugEnabled returns true if debug mode is enabled and we're not in MCP mode
func IsDebugEnabled() bool {
	if MCPMode {
		return false
	}

	if EnableDebug == "true" {
		return true
	}

	// Allow runtime override via environment variable
	if os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true" {
		return true
	}

	return false
}

// Logger returns the structured logger, or a no-op logger when debug output is disabled
func Logger() *zap.Logger {
	if !IsDebugEnabled() {
		return zap.NewNop()
	}
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugLogger
}

// Printf prints debug information only when debug mode is enabled and output is configured
func Printf(format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	Logger().Debug(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Log provides debug logging tagged with a component name
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	Logger().Debug(strings.TrimRight(fmt.Sprintf(format, args...), "\n"), zap.String("component", component))
}

// LogIngest logs corpus scanning and annotation
func LogIngest(format string, args ...interface{}) {
	Log("INGEST", format, args...)
}

// LogIndex logs dictionary and vector construction
func LogIndex(format string, args ...interface{}) {
	Log("INDEX", format, args...)
}

// LogQuery logs similarity queries
func LogQuery(format string, args ...interface{}) {
	Log("QUERY", format, args...)
}

// LogMCP logs MCP server activity. Output only reaches a file sink since stdio carries the protocol.
func LogMCP(format string, args ...interface{}) {
	debugMutex.Lock()
	l, f := debugLogger, debugFile
	debugMutex.Unlock()
	if f == nil {
		return
	}
	l.Debug(strings.TrimRight(fmt.Sprintf(format, args...), "\n"), zap.String("component", "MCP"))
}
