package replay

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger sets the logger used by every engine. Passing nil disables
// logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Named("replay")
}

// Logger returns the current package logger.
func Logger() *zap.Logger {
	return logger
}
