package telemetry

import "go.uber.org/zap"

// Logger is a thin structured-logging facade. Fields are passed as
// alternating key/value pairs, mirroring zap's SugaredLogger so call sites
// stay terse without importing zap directly everywhere.
type Logger struct {
	z *zap.SugaredLogger
}

// New wraps an existing *zap.Logger.
func New(z *zap.Logger) *Logger {
	if z == nil {
		return Nop()
	}

	return &Logger{z: z.Sugar()}
}

// Nop returns a Logger that discards everything, the default for components
// constructed without an explicit WithLogger option.
func Nop() *Logger {
	return &Logger{z: zap.NewNop().Sugar()}
}

// Info logs at info level with structured key/value fields.
func (l *Logger) Info(msg string, kv ...interface{}) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Infow(msg, kv...)
}

// Warn logs at warn level with structured key/value fields.
func (l *Logger) Warn(msg string, kv ...interface{}) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Warnw(msg, kv...)
}

// Error logs at error level with structured key/value fields.
func (l *Logger) Error(msg string, kv ...interface{}) {
	if l == nil || l.z == nil {
		return
	}
	l.z.Errorw(msg, kv...)
}
