package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" warning "))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("verbose"))
	assert.Equal(t, "WARN", WARN.String())
}

func TestLogger_LevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: INFO, Output: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.WithFields(F("key", "tasks")).Warn("Save failed", Err(errors.New("disk full")))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN logger_test.go:")
	assert.Contains(t, out, "Save failed | key=tasks error=disk full")
}

func TestLogger_GlobalReplace(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: DEBUG, Output: &buf})
	require.NoError(t, err)

	restore := ReplaceGlobal(l)
	Debug("via package", F("n", 1))
	restore()

	assert.Contains(t, buf.String(), "DEBUG logger_test.go:")
	assert.Contains(t, buf.String(), "via package | n=1")
}

func TestLogger_NilSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("nothing")
		assert.Nil(t, l.WithFields(F("a", 1)))
		assert.NoError(t, l.Close())
	})
}

func TestLogger_RotatesBySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l, err := New(Config{Level: INFO, FilePath: path, MaxSize: 64, MaxBackups: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	for i := 0; i < 5; i++ {
		l.Info(strings.Repeat("x", 40))
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))
}
