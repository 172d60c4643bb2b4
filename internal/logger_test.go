package internal

import (
	"context"
	"errors"
	"redsys-orders/entity"
	"redsys-orders/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type logDatabase struct {
	*MemoryStore
	*StaticConfig
	messages []*entity.LogMessage
}

func (d *logDatabase) WriteLogMessage(_ context.Context, data services.Data) error {
	d.messages = append(d.messages, data.(*entity.LogMessage))
	return nil
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	database := &logDatabase{MemoryStore: NewMemoryStore(), StaticConfig: NewStaticValues(nil)}
	logger := NewZapLogger("reconciler", zap.New(core))
	logger.database = database

	logger.Debug("checking order 100")
	logger.Info("sweep done")
	logger.Warn("previous sweep still running")
	logger.Error("cancel", errors.New("write conflict"))

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "reconciler", entries[0].LoggerName)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "write conflict", entries[3].ContextMap()["error"])

	// only warnings and errors are persisted
	require.Len(t, database.messages, 2)
	assert.Equal(t, "warning", database.messages[0].Level)
	assert.Equal(t, "reconciler", database.messages[0].Category)
	assert.Equal(t, "error", database.messages[1].Level)
	assert.Equal(t, "cancel: write conflict", database.messages[1].Text)
	assert.Equal(t, "log_message", database.messages[1].DataType())
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger("server", true, nil)
	logger.Warn("no database attached")
	logger.Sync()
}
