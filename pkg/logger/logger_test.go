package logger

import (
	"path/filepath"
	"testing"

	"learngenix_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestApplyConfigChangesLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.File = filepath.Join(t.TempDir(), "app.log")
	InitLogger(cfg)
	assert.Equal(t, zap.InfoLevel, Level())

	cfg.Log.Level = "debug"
	ApplyConfig(cfg)
	assert.Equal(t, zap.DebugLevel, Level())

	cfg.Log.Level = "not-a-level"
	ApplyConfig(cfg)
	assert.Equal(t, zap.InfoLevel, Level())
}
