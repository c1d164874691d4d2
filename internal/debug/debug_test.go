package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState() func() {
	originalDebug := EnableDebug
	originalQuiet := QuietMode
	originalOutput := debugOutput
	originalFile := debugFile
	return func() {
		EnableDebug = originalDebug
		QuietMode = originalQuiet
		debugOutput = originalOutput
		debugFile = originalFile
	}
}

func TestSetQuietMode(t *testing.T) {
	defer saveAndRestoreState()()

	SetQuietMode(true)
	assert.True(t, QuietMode)

	SetQuietMode(false)
	assert.False(t, QuietMode)
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "false"
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	assert.True(t, IsDebugEnabled())

	EnableDebug = "invalid"
	assert.False(t, IsDebugEnabled())
}

func TestLog(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	QuietMode = false
	Log("TEST", "Hello %s", "World")

	output := buf.String()
	assert.Contains(t, output, "[TEST]")
	assert.Contains(t, output, "Hello World")
}

func TestLog_QuietModeSuppressesNonFileWriter(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	QuietMode = true
	Log("TEST", "should not appear")

	assert.Empty(t, buf.String())
}

func TestLogKconfig(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	QuietMode = false
	LogKconfig("parsing %s", "Kconfig")

	output := buf.String()
	assert.Contains(t, output, "[kconfig]")
	assert.Contains(t, output, "parsing Kconfig")
}

func TestLogLint(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	QuietMode = false
	LogLint("undefined symbol %s", "FOO")

	output := buf.String()
	assert.Contains(t, output, "[lint]")
	assert.Contains(t, output, "undefined symbol FOO")
}

func TestFatal(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	QuietMode = false
	err := Fatal("test error: %s", "details")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fatal error: test error: details")
	assert.Contains(t, buf.String(), "[FATAL]")
}

func TestConcurrentLogging(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	QuietMode = false

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			Log("concurrent", "message from goroutine %d", id)
			LogRPC("dispatch from goroutine %d", id)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	assert.True(t, true)
}

func TestNoOutputWithNilWriter(t *testing.T) {
	defer saveAndRestoreState()()

	SetDebugOutput(nil)
	QuietMode = false

	Printf("test %s", "message")
	Log("TEST", "test %s", "message")
	LogRPC("test %s", "message")
	LogKconfig("test %s", "message")
	Fatal("test %s", "message")
}

func TestInitLogFile(t *testing.T) {
	defer saveAndRestoreState()()

	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "lsp.log")

	resolved, err := InitLogFile(logPath)
	assert.NoError(t, err)
	assert.Equal(t, logPath, resolved)

	_, err = os.Stat(resolved)
	assert.NoError(t, err)

	QuietMode = false
	Printf("hello log")

	err = CloseLogFile()
	assert.NoError(t, err)

	content, err := os.ReadFile(resolved)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "hello log")
}

func TestInitLogFileDefaultPath(t *testing.T) {
	defer saveAndRestoreState()()

	dir := t.TempDir()
	wd, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	resolved, err := InitLogFile("")
	assert.NoError(t, err)
	assert.Equal(t, "lsp.log", resolved)
	assert.NoError(t, CloseLogFile())
}
