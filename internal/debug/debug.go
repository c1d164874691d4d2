package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/standardbeagle/kconfig-lsp/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// QuietMode tracks whether the process is driving the stdio JSON-RPC
// transport, in which case nothing may ever be written to stdout and
// log output is suppressed unless it was explicitly routed to a file.
var QuietMode = false

// debugOutput is the writer for debug output (defaults to nil, meaning no output)
var debugOutput io.Writer

// debugFile holds the open file handle if debug output goes to a file
var debugFile *os.File

// debugMutex protects access to debug output
var debugMutex sync.Mutex

// SetQuietMode enables quiet mode, which suppresses all debug output that
// isn't explicitly routed to a file. The `serve` subcommand enables this
// for the lifetime of the stdio JSON-RPC loop.
func SetQuietMode(enabled bool) {
	QuietMode = enabled
}

// SetDebugOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// InitLogFile opens the rolling log file at path, creating its parent
// directory if necessary. An empty path falls back to "lsp.log" in the
// working directory. Returns the resolved path.
// Call CloseLogFile when done to ensure the file is properly closed.
func InitLogFile(path string) (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if path == "" {
		path = "lsp.log"
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	debugFile = file
	debugOutput = file
	return path, nil
}

// InitLogFileWithRotation behaves like InitLogFile, but first rotates any
// existing file at path past maxSizeBytes to path+".1", overwriting a
// previous rotation. maxSizeBytes <= 0 disables rotation.
func InitLogFileWithRotation(path string, maxSizeBytes int64) (string, error) {
	if maxSizeBytes > 0 {
		resolved := path
		if resolved == "" {
			resolved = "lsp.log"
		}
		if info, err := os.Stat(resolved); err == nil && info.Size() >= maxSizeBytes {
			os.Rename(resolved, resolved+".1")
		}
	}
	return InitLogFile(path)
}

// CloseLogFile closes the log file if one is open.
func CloseLogFile() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if debugFile != nil {
		err := debugFile.Close()
		debugFile = nil
		debugOutput = nil
		return err
	}
	return nil
}

// IsDebugEnabled returns true if debug logging is enabled, either by the
// EnableDebug build setting or by the DEBUG environment variable.
func IsDebugEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	if os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true" {
		return true
	}
	return false
}

func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	if QuietMode && debugFile == nil {
		// A writer only configured via SetDebugOutput (not a file) could
		// be stdout/stderr; refuse it while the stdio transport is live.
		return nil
	}
	return debugOutput
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Printf writes a timestamped line to the log file, when one is open.
func Printf(format string, args ...interface{}) {
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "%s [DEBUG] "+format+"\n", append([]interface{}{timestamp()}, args...)...)
}

// Log provides structured logging with component names, e.g.
// debug.Log("rpc", "dispatch %s", method).
func Log(component, format string, args ...interface{}) {
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "%s [%s] "+format+"\n", append([]interface{}{timestamp(), component}, args...)...)
}

// LogRPC logs a JSON-RPC dispatch event.
func LogRPC(format string, args ...interface{}) {
	Log("rpc", format, args...)
}

// LogKconfig logs a kconfig parse/evaluate event.
func LogKconfig(format string, args ...interface{}) {
	Log("kconfig", format, args...)
}

// LogLint logs a linter diagnostic event.
func LogLint(format string, args ...interface{}) {
	Log("lint", format, args...)
}

// Fatal writes a fatal-severity message to the log and returns it as an
// error. It does not terminate the process - callers decide what to do.
func Fatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if w := getDebugWriter(); w != nil {
		fmt.Fprintf(w, "%s [FATAL] %s\n", timestamp(), msg)
	}
	return fmt.Errorf("fatal error: %s", msg)
}

// FatalAndExit writes a fatal-severity message and exits. Only safe to
// call from cmd/kconfig-lsp entry points, never mid-request.
func FatalAndExit(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w := getDebugWriter(); w != nil {
		fmt.Fprintf(w, "%s [FATAL] %s\n", timestamp(), msg)
	}
	os.Exit(1)
}
