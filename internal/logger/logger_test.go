package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "")
	assert.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheetseek.log")

	l, err := New("info", path)
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("visible")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "visible"))
	assert.False(t, strings.Contains(string(data), "hidden"))
}

func TestNewForTUIWithoutFileIsSilent(t *testing.T) {
	l, err := NewForTUI("debug", "")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
