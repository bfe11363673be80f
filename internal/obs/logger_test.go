package obs

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"strings"
	"testing"
)

func TestStdLogger_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := StdLogger{L: log.New(&buf, "", 0), Min: Info}
	conn := lg.With("conn", "abc", "remote", "127.0.0.1:1")
	conn.Log(Debug, "dropped")
	conn.Log(Info, "request", "method", "GET", "path", "/a b")
	got := strings.TrimSpace(buf.String())
	want := `[INFO] request conn=abc remote=127.0.0.1:1 method=GET path="/a b"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStdLogger_WithDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := StdLogger{L: log.New(&buf, "", 0)}
	a := base.With("a", 1)
	_ = a.With("b", 2)
	a.Log(Info, "x")
	if got := strings.TrimSpace(buf.String()); got != "[INFO] x a=1" {
		t.Fatalf("got %q", got)
	}
}

func TestStdLogger_OddFields(t *testing.T) {
	var buf bytes.Buffer
	StdLogger{L: log.New(&buf, "", 0), Pref: "tiny "}.Log(Warn, "odd", "lonely")
	if got := strings.TrimSpace(buf.String()); got != "tiny [WARN] odd !BADKEY=lonely" {
		t.Fatalf("got %q", got)
	}
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	lg := SlogLogger{L: slog.New(slog.NewJSONHandler(&buf, nil))}
	lg.With("conn", "c1").Log(Warn, "write failed", "err", "broken pipe")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v (%q)", err, buf.String())
	}
	if rec["level"] != "WARN" || rec["msg"] != "write failed" || rec["conn"] != "c1" || rec["err"] != "broken pipe" {
		t.Fatalf("record=%v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"debug": Debug, "INFO": Info, "": Info, "warning": Warn, "error": Error} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
}
