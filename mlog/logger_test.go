package mlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoLogger(t *testing.T) {
	SetLogger(nil)
	assert.Nil(t, GetLogger())
	// 未设置logger时不能panic
	Infof("dropped %d", 1)
	Errorf("dropped %d", 2)
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(NewZapLogger(zap.New(core)))
	defer SetLogger(nil)

	Tracef("trace %d", 1)
	Infof("timer %s started", "blink")
	Noticef("notice")
	Warnf("inbox %d%% full", 90)
	Errorf("callback panic: %v", "boom")

	entries := logs.AllUntimed()
	require.Len(t, entries, 5)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "timer blink started", entries[1].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
	assert.Equal(t, "inbox 90% full", entries[3].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[4].Level)
}

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	z := UseFileLogger(FileOptions{Path: dir, Name: "swtimer", Level: InfoLevel})
	defer SetLogger(nil)

	Debugf("not written")
	Infof("written")
	require.NoError(t, z.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "swtimer.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
	assert.NotContains(t, string(data), "not written")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "warn", WarnLevel.String())
	assert.Equal(t, "trace", TraceLevel.String())
	assert.Equal(t, "unknown", Level(99).String())
}
