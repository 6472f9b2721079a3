package linkml

import "go.uber.org/zap"

// Logger is the narrow structured-logging surface the validation engine and
// compiler call through, so callers can supply their own
// zap.Logger (or any adapter) without this package depending on how it was
// constructed.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

// zapLogger adapts *zap.SugaredLogger to Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps a *zap.Logger as a Logger.
func NewZapLogger(l *zap.Logger) Logger {
	return &zapLogger{s: l.Sugar()}
}

func (z *zapLogger) Debugw(msg string, kv ...any) { z.s.Debugw(msg, kv...) }
func (z *zapLogger) Infow(msg string, kv ...any)  { z.s.Infow(msg, kv...) }
func (z *zapLogger) Warnw(msg string, kv ...any)  { z.s.Warnw(msg, kv...) }
func (z *zapLogger) Errorw(msg string, kv ...any) { z.s.Errorw(msg, kv...) }

// noopLogger discards everything; used as the zero-value default so callers
// never need a nil check before logging.
type noopLogger struct{}

func (noopLogger) Debugw(string, ...any) {}
func (noopLogger) Infow(string, ...any)  {}
func (noopLogger) Warnw(string, ...any)  {}
func (noopLogger) Errorw(string, ...any) {}

// defaultLogger is the Logger Validate writes to, and the initial Logger of
// every Compiler made by NewCompiler (Compiler.SetLogger replaces it per
// compiler). Diff does not log.
var defaultLogger Logger = noopLogger{}

// SetDefaultLogger overrides the package-wide default Logger, e.g. to wire
// in a *zap.Logger configured by the host application.
func SetDefaultLogger(l Logger) {
	if l == nil {
		defaultLogger = noopLogger{}
		return
	}
	defaultLogger = l
}
