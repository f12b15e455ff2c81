// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
		ok   bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{"INFO", zerolog.InfoLevel, true},
		{"warn", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"", zerolog.InfoLevel, false},
		{"verbose", zerolog.InfoLevel, false},
	}
	for _, c := range cases {
		got, ok := ParseLevel(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseLevel(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestEnvOverridesConfiguredLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "off")
	var buf bytes.Buffer
	log := New("debug", &buf)
	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("env override ignored: %q", buf.String())
	}
}

func TestRunLoggerWritesBothSinks(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "postoga.log")
	var console bytes.Buffer
	log, closer, err := NewRunLogger("info", &console, path)
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Str("stage", "reconcile").Msg("table built")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(console.String(), "table built") {
		t.Errorf("console output: %q", console.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "table built") {
		t.Errorf("log file output: %q", data)
	}
}
