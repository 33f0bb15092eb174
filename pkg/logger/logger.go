package logger

import "log"

// Level is the minimum severity a logger lets through. SILENCE drops
// everything and is meant for tests.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

func (l Level) tag() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARN"
	case ERROR:
		return "ERROR"
	}

	return ""
}

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level Level
}

func NewLogger(level Level) *defaultLogger {
	return &defaultLogger{level: level}
}

func (l *defaultLogger) logf(level Level, msg string, a ...any) {
	if l.level <= level {
		log.Printf("["+level.tag()+"] "+msg+"\n", a...)
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.logf(DEBUG, msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.logf(INFO, msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.logf(WARNING, msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.logf(ERROR, msg, a...)
}
