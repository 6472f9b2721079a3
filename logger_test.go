package linkml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingLogger struct {
	messages []string
}

func (r *recordingLogger) Debugw(msg string, kv ...any) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Infow(msg string, kv ...any)  { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Warnw(msg string, kv ...any)  { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Errorw(msg string, kv ...any) { r.messages = append(r.messages, msg) }

func TestSetDefaultLoggerOverridesPackageDefault(t *testing.T) {
	t.Cleanup(func() { SetDefaultLogger(nil) })

	rec := &recordingLogger{}
	SetDefaultLogger(rec)
	defaultLogger.Infow("hello", "k", "v")

	assert.Equal(t, []string{"hello"}, rec.messages)
}

func TestSetDefaultLoggerNilResetsToNoop(t *testing.T) {
	SetDefaultLogger(nil)
	assert.IsType(t, noopLogger{}, defaultLogger)
}

func TestNewZapLoggerImplementsLogger(t *testing.T) {
	var l Logger = NewZapLogger(zap.NewNop())
	assert.NotPanics(t, func() {
		l.Debugw("msg")
		l.Infow("msg")
		l.Warnw("msg")
		l.Errorw("msg")
	})
}
