package roundbot

import (
	"fmt"
	"log"
	"os"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes info and debug lines to stdout and warnings and errors
// to stderr, as "[prefix] LEVEL: message".
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(os.Stdout, "", flags),
		err:    log.New(os.Stderr, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enabled
}

func (l *DefaultLogger) emit(dst *log.Logger, level, format string, args []any) {
	msg := level + ": " + fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = "[" + l.prefix + "] " + msg
	}
	dst.Print(msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if l.DebugEnabled() {
		l.emit(l.out, "DEBUG", format, args)
	}
}

func (l *DefaultLogger) Infof(format string, args ...any)  { l.emit(l.out, "INFO", format, args) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.emit(l.err, "WARN", format, args) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.emit(l.err, "ERROR", format, args) }

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// prefixedLogger tags every line of a caller-supplied logger with the model session.
type prefixedLogger struct {
	Logger
	prefix string
}

func withPrefix(l Logger, prefix string) Logger {
	if l == nil {
		return NewNopLogger()
	}
	if _, ok := l.(*nopLogger); ok {
		return l
	}
	return &prefixedLogger{Logger: l, prefix: prefix}
}

func (p *prefixedLogger) tag(format string, args []any) (string, []any) {
	return "[%s] " + format, append([]any{p.prefix}, args...)
}

func (p *prefixedLogger) Debugf(format string, args ...any) {
	f, a := p.tag(format, args)
	p.Logger.Debugf(f, a...)
}

func (p *prefixedLogger) Infof(format string, args ...any) {
	f, a := p.tag(format, args)
	p.Logger.Infof(f, a...)
}

func (p *prefixedLogger) Warnf(format string, args ...any) {
	f, a := p.tag(format, args)
	p.Logger.Warnf(f, a...)
}

func (p *prefixedLogger) Errorf(format string, args ...any) {
	f, a := p.tag(format, args)
	p.Logger.Errorf(f, a...)
}
