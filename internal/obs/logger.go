package obs

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strings"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return Info, fmt.Errorf("obs: unknown log level %q", s)
}

// Logger is a leveled, structured logging interface. kv holds
// alternating keys and values; With returns a Logger that prefixes
// every entry with kv.
type Logger interface {
	Log(level Level, msg string, kv ...any)
	With(kv ...any) Logger
}

// NopLogger discards all logs.
type NopLogger struct{}

func (NopLogger) Log(level Level, msg string, kv ...any) {}
func (n NopLogger) With(kv ...any) Logger                { return n }

// StdLogger adapts the standard library logger, rendering fields as key=value.
type StdLogger struct {
	L      *log.Logger
	Min    Level
	Pref   string // optional prefix per log line
	fields []any
}

func (s StdLogger) Log(level Level, msg string, kv ...any) {
	if s.L == nil || level < s.Min {
		return
	}
	var b strings.Builder
	if s.Pref != "" {
		b.WriteString(s.Pref)
	}
	b.WriteString("[")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)
	appendFields(&b, s.fields)
	appendFields(&b, kv)
	s.L.Print(b.String())
}

func (s StdLogger) With(kv ...any) Logger {
	s.fields = append(append([]any(nil), s.fields...), kv...)
	return s
}

func appendFields(b *strings.Builder, kv []any) {
	for i := 0; i < len(kv); i += 2 {
		var key string
		var val any
		if i+1 < len(kv) {
			key, val = fmt.Sprint(kv[i]), kv[i+1]
		} else {
			key, val = "!BADKEY", kv[i]
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		v := fmt.Sprint(val)
		if v == "" || strings.ContainsAny(v, " \t\"=") {
			v = fmt.Sprintf("%q", v)
		}
		b.WriteString(v)
	}
}

// SlogLogger bridges to log/slog.
type SlogLogger struct {
	L *slog.Logger
}

func (s SlogLogger) Log(level Level, msg string, kv ...any) {
	if s.L == nil {
		return
	}
	s.L.Log(context.Background(), slogLevel(level), msg, kv...)
}

func (s SlogLogger) With(kv ...any) Logger {
	if s.L == nil {
		return s
	}
	return SlogLogger{L: s.L.With(kv...)}
}

func slogLevel(l Level) slog.Level {
	switch l {
	case Debug:
		return slog.LevelDebug
	case Warn:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SlogLevel maps l onto the slog level scale, for handler options.
func SlogLevel(l Level) slog.Level { return slogLevel(l) }
