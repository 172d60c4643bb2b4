package internal

import (
	"context"
	"fmt"
	"redsys-orders/entity"
	"redsys-orders/services"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes structured logs with zap; warnings and errors are also stored in the database when one is attached.
type Logger struct {
	category string
	zap      *zap.Logger
	database services.Database
}

func NewLogger(category string, debug bool, database services.Database) *Logger {
	var conf zap.Config
	if debug {
		conf = zap.NewDevelopmentConfig()
	} else {
		conf = zap.NewProductionConfig()
	}
	conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zl, err := conf.Build()
	if err != nil {
		zl = zap.NewNop()
	}
	return &Logger{
		category: category,
		zap:      zl.Named(category),
		database: database,
	}
}

// NewZapLogger wraps an existing zap logger; used by tests with zaptest or observer cores.
func NewZapLogger(category string, zl *zap.Logger) *Logger {
	return &Logger{
		category: category,
		zap:      zl.Named(category),
	}
}

func (l *Logger) Debug(text string) {
	l.zap.Debug(text)
}

func (l *Logger) Info(text string) {
	l.zap.Info(text)
}

func (l *Logger) Warn(text string) {
	l.zap.Warn(text)
	l.store("warning", text)
}

func (l *Logger) Error(text string, err error) {
	l.zap.Error(text, zap.Error(err))
	l.store("error", fmt.Sprintf("%s: %v", text, err))
}

func (l *Logger) Sync() {
	_ = l.zap.Sync()
}

func (l *Logger) store(level, text string) {
	if l.database == nil {
		return
	}
	message := &entity.LogMessage{
		Time:     time.Now().UTC().Format(time.RFC3339),
		Level:    level,
		Category: l.category,
		Text:     text,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.database.WriteLogMessage(ctx, message); err != nil {
		l.zap.Error("write log to database", zap.Error(err))
	}
}
