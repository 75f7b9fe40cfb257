package log

import (
	"github.com/tryfix/log"
)

// Logger gates the noisier levels behind the verbose flag so the
// interactive prompt stays readable; fatals always pass.
type Logger struct {
	verbose bool
	log.Logger
}

func NewLogger(verbose bool) *Logger {
	return &Logger{
		verbose: verbose,
		Logger: log.Constructor.Log(
			log.WithColors(true),
			log.WithLevel("TRACE"),
			log.WithFilePath(true),
			log.WithSkipFrameCount(4),
		),
	}
}

func (l *Logger) Error(message interface{}, params ...interface{}) {
	if l.verbose {
		l.Logger.Error(message, params...)
	}
}

func (l *Logger) Warn(message interface{}, params ...interface{}) {
	if l.verbose {
		l.Logger.Warn(message, params...)
	}
}

func (l *Logger) Trace(message interface{}, params ...interface{}) {
	if l.verbose {
		l.Logger.Trace(message, params...)
	}
}

func (l *Logger) Debug(message interface{}, params ...interface{}) {
	if l.verbose {
		l.Logger.Debug(message, params...)
	}
}

func (l *Logger) Info(message interface{}, params ...interface{}) {
	if l.verbose {
		l.Logger.Info(message, params...)
	}
}
