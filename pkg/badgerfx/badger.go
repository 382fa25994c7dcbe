// Package badgerfx provides a BadgerDB handle and a generic entity
// repository on top of it.
package badgerfx

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// SeekEnd is appended to a prefix to start a reverse scan after its last key.
const SeekEnd = byte(0xFF)

func New(config Config, logger *zap.Logger) (*badger.DB, error) {
	opts := config.Build().
		WithLogger(&zapLogger{logger: logger.WithOptions(zap.AddCallerSkip(1))})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	logger.Info("badger opened", zap.String("dir", config.Dir), zap.Bool("in_memory", config.InMemory))

	return db, nil
}

// zapLogger routes badger's printf-style logging into zap.
type zapLogger struct {
	logger *zap.Logger
}

func (l *zapLogger) Debugf(format string, a ...any) {
	l.logger.Debug(fmt.Sprintf(format, a...))
}

func (l *zapLogger) Errorf(format string, a ...any) {
	l.logger.Error(fmt.Sprintf(format, a...))
}

func (l *zapLogger) Infof(format string, a ...any) {
	l.logger.Info(fmt.Sprintf(format, a...))
}

func (l *zapLogger) Warningf(format string, a ...any) {
	l.logger.Warn(fmt.Sprintf(format, a...))
}

var _ badger.Logger = (*zapLogger)(nil)
