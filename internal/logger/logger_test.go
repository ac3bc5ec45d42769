package logger

import (
	"testing"

	gommonlog "github.com/labstack/gommon/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zap.DebugLevel,
		" WARN ":  zap.WarnLevel,
		"error":   zap.ErrorLevel,
		"info":    zap.InfoLevel,
		"":        zap.InfoLevel,
		"verbose": zap.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q)=%s, want %s", in, got, want)
		}
	}
}

func TestEchoLevel(t *testing.T) {
	if got := EchoLevel("debug"); got != gommonlog.DEBUG {
		t.Fatalf("EchoLevel(debug)=%d, want DEBUG", got)
	}
	if got := EchoLevel("error"); got != gommonlog.ERROR {
		t.Fatalf("EchoLevel(error)=%d, want ERROR", got)
	}
	if got := EchoLevel("nonsense"); got != gommonlog.INFO {
		t.Fatalf("EchoLevel(nonsense)=%d, want INFO", got)
	}
}

func TestInit(t *testing.T) {
	l := Init("warn", "console")
	if l == nil {
		t.Fatalf("Init returned nil")
	}
	if l.Core().Enabled(zap.InfoLevel) {
		t.Fatalf("info must be disabled at warn level")
	}
	if !l.Core().Enabled(zap.WarnLevel) {
		t.Fatalf("warn must be enabled at warn level")
	}
}
