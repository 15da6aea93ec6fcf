package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapLogger_FieldsAreAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "recommend-jobs"})

	log.WithError(errors.New("boom")).Error("failed", map[string]interface{}{"jobKey": int64(7)})

	entries := logs.All()
	assert.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "recommend-jobs", ctx["taskType"])
	assert.Equal(t, int64(7), ctx["jobKey"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestToZapFields_SortedAndErrorsNamed(t *testing.T) {
	fields := toZapFields(map[string]interface{}{"b": 1, "a": 2, "cause": errors.New("x")})
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)
	assert.Equal(t, "cause", fields[2].Key)
	assert.Equal(t, zapcore.ErrorType, fields[2].Type)
	assert.Nil(t, toZapFields(nil))
}

func TestNew_StaticFields(t *testing.T) {
	l := NewStructured(Options{Level: "info", Format: "json", Service: "careerguide-workers"})
	assert.NotNil(t, l)
	NewNoOpLogger().Info("discarded", nil)
	NewTestLogger(t).Debug("visible in -v", map[string]interface{}{"k": "v"})
}
