package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"taskType": "derive-career-pathways"})

	log.Info("processing job", map[string]interface{}{"jobKey": int64(7), "b": 1, "a": 2})
	log.WithError(errors.New("boom")).Error("job failed", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "derive-career-pathways", first["taskType"])
	assert.Equal(t, int64(7), first["jobKey"])

	fields := entries[0].Context
	require.Len(t, fields, 4)
	assert.Equal(t, "a", fields[1].Key)
	assert.Equal(t, "b", fields[2].Key)

	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestBuild_BadOutputFallsBackToNop(t *testing.T) {
	l := Build(Options{Level: "info", Format: "json", Output: "/nonexistent/dir/app.log"})
	require.NotNil(t, l)
	l.Info("dropped")
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	log.With(map[string]interface{}{"k": "v"}).Warn("ignored", nil)
}
