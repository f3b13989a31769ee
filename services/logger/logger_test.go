package logsvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

func TestNewZap(t *testing.T) {
	tests := []struct {
		name    string
		conf    core.LogConfig
		wantErr bool
	}{
		{name: "console", conf: core.LogConfig{Level: "debug", Format: "console"}},
		{name: "json", conf: core.LogConfig{Level: "warn", Format: "json"}},
		{name: "bad level", conf: core.LogConfig{Level: "loud"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewZap(tt.conf, "test")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewZap() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestZapLogger_fields(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(obsCore))

	usr := user.User{ID: "u1", Name: "Alice", Role: user.RoleInstructor}
	logger.Error("course not persisted", errors.New("disk full"), map[string]interface{}{"course": "c1"}, usr)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "course not persisted", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, map[string]interface{}{
		"error":     "disk full",
		"course":    "c1",
		"user_id":   "u1",
		"user_role": "instructor",
	}, entries[0].ContextMap())
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := RollbarLogger{std: NewNop()}
	usr := user.User{ID: "u1", Name: "Alice", Role: user.RoleStudent}
	err := errors.New("boom")

	got := logger.prepare("submission not persisted", []interface{}{err, usr, user.User{ID: "u2"}})
	assert.Equal(t, []interface{}{"submission not persisted", err}, got)
}
