package logging

import (
	"io"
	"log"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "TRACE"
	}
}

// A Logger filters log messages by level before handing them to the standard
// library logger
type Logger struct {
	level int
	l     *log.Logger
}

// CreateLogger produces a Logger which discards messages below the given level
func CreateLogger(level int, out io.Writer) *Logger {
	return &Logger{
		level: level,
		l:     log.New(out, "", log.LstdFlags),
	}
}

// Logf logs a message at the given level
func (lg *Logger) Logf(level int, format string, args ...interface{}) {
	if level < lg.level {
		return
	}
	lg.l.Printf("["+LogLevelToString(level)+"] "+format, args...)
}

// Tracef logs a message at TraceLevel
func (lg *Logger) Tracef(format string, args ...interface{}) {
	lg.Logf(TraceLevel, format, args...)
}

// Debugf logs a message at DebugLevel
func (lg *Logger) Debugf(format string, args ...interface{}) {
	lg.Logf(DebugLevel, format, args...)
}

// Infof logs a message at InfoLevel
func (lg *Logger) Infof(format string, args ...interface{}) {
	lg.Logf(InfoLevel, format, args...)
}

// Warnf logs a message at WarnLevel
func (lg *Logger) Warnf(format string, args ...interface{}) {
	lg.Logf(WarnLevel, format, args...)
}

// Errorf logs a message at ErrorLevel
func (lg *Logger) Errorf(format string, args ...interface{}) {
	lg.Logf(ErrorLevel, format, args...)
}
