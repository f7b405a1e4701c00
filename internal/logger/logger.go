// Package logger provides the ambient logging concern shared by the
// client and its demo host. The interface shape is the teacher's own
// (Error/Info/Debug); the backing implementation is zap, matching the
// structured-logging convention of LSP-adjacent Go packages in the
// retrieval pack (go-language-server-jsonrpc2) rather than the teacher's
// own hand-rolled file-ring-buffer logger.
package logger

import (
	"go.uber.org/zap"
)

// Logger is the ambient logging surface used throughout package lsp and
// cmd/lspdemo.
type Logger interface {
	Error(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// ZapLogger adapts a *zap.SugaredLogger to Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps z as a Logger.
func NewZapLogger(z *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: z.Sugar()}
}

// NewDevelopment builds a ZapLogger using zap's development config
// (human-readable console output, debug level enabled) — the config
// shape most CLI tools in the retrieval pack reach for outside a
// production service.
func NewDevelopment() (*ZapLogger, error) {
	z, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(z), nil
}

func (l *ZapLogger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *ZapLogger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Sync flushes any buffered log entries; callers should defer it after
// construction, mirroring zap's own documented usage.
func (l *ZapLogger) Sync() error { return l.sugar.Sync() }

// NullLogger discards everything. Used as the Client default and in
// tests that don't care about log output.
type NullLogger struct{}

func (NullLogger) Error(format string, args ...interface{}) {}
func (NullLogger) Info(format string, args ...interface{})  {}
func (NullLogger) Debug(format string, args ...interface{}) {}
