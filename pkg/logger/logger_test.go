package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInit_EmitsTimestampAndCaller(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Output: &buf})

	log.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"message":"hello"`) {
		t.Fatalf("message missing from output: %s", out)
	}
	if !strings.Contains(out, `"time":`) {
		t.Fatalf("timestamp missing from output: %s", out)
	}
	if !strings.Contains(out, `"caller":`) {
		t.Fatalf("caller missing from output: %s", out)
	}
}

func TestInit_OnlyFirstCallTakesEffect(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	log := Init(Options{Level: "info", Output: &second})

	log.Info().Msg("routed")

	if second.Len() != 0 {
		t.Fatalf("second Init should have no effect")
	}
	if !strings.Contains(first.String(), "routed") {
		t.Fatalf("expected log line in first writer: %s", first.String())
	}
}

func TestInit_LevelFiltering(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "warn", Output: &buf})

	log.Debug().Msg("hidden")
	log.Warn().Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %s", out)
	}
}
