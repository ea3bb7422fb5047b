package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*ZapLogger, *observer.ObservedLogs) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core, logs := observer.New(level)
	return &ZapLogger{logger: zap.New(core), level: level}, logs
}

func TestLevelFiltering(t *testing.T) {
	l, logs := newObserved()

	l.Debug("hidden")
	l.Info("shown")
	assert.Equal(t, 1, logs.Len())

	l.SetLevel(contracts.DebugLevel)
	l.Debug("now shown")
	assert.Equal(t, 2, logs.Len())

	l.SetLevel(contracts.ErrorLevel)
	l.Warn("hidden again")
	l.Error("error shown")
	assert.Equal(t, 3, logs.Len())
}

func TestFieldsAreStructured(t *testing.T) {
	l, logs := newObserved()

	l.Info("note fired",
		l.Field().Int("note", 60),
		l.Field().Bool("on", true),
		l.Field().Ints("degrees", []int{0, 5, 7}),
		l.Field().Error("error", errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, int64(60), ctx["note"])
	assert.Equal(t, true, ctx["on"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Len(t, ctx["degrees"], 3)
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trainer.log")
	l := NewZapLogger().(*ZapLogger)

	l.SetDestination(contracts.FileLog, path)
	l.Info("written to file", l.Field().String("k", "v"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, contracts.DebugLevel, contracts.ParseLogLevel("debug"))
	assert.Equal(t, contracts.InfoLevel, contracts.ParseLogLevel("nonsense"))
	assert.Equal(t, zapcore.WarnLevel, zapLevel(contracts.ParseLogLevel("warn")))
}
