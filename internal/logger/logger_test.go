package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zap.InfoLevel, false},
		{"INFO", zap.InfoLevel, false},
		{"debug", zap.DebugLevel, false},
		{"warning", zap.WarnLevel, false},
		{"error", zap.ErrorLevel, false},
		{"loud", zap.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitialize(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	require.NoError(t, Initialize(false, "debug"))
	assert.NotNil(t, Logger)
	assert.False(t, JSONOutput)

	require.NoError(t, Initialize(true, "warn"))
	assert.True(t, JSONOutput)

	assert.Error(t, Initialize(false, "nope"))
}

func TestOrComponent(t *testing.T) {
	given := zap.NewNop().Sugar()
	assert.Same(t, given, OrComponent(given, "x"))
	assert.NotNil(t, OrComponent(nil, "x"))
}
