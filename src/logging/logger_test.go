package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel("info")
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)

	SetLevel("warn")
	Debugf("dropped debug")
	Infof("dropped info")
	Warnf("kept warn")
	Errorf("kept error")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("below-level lines logged: %s", out)
	}
	if !strings.Contains(out, "[WARN] kept warn") || !strings.Contains(out, "[ERROR] kept error") {
		t.Fatalf("expected warn and error lines, got: %s", out)
	}
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	SetLevel("debug")
	SetLevel("loud")
	if GetLevel() != LevelDebug {
		t.Fatalf("unknown level changed state to %v", GetLevel())
	}
	SetLevel("info")
}

func TestPercentLiteralsSurviveWithoutArgs(t *testing.T) {
	buf := capture(t)

	SetLevel("info")
	Infof("rate=66.7% of 3 checks")

	out := buf.String()
	if !strings.Contains(out, "rate=66.7% of 3 checks") {
		t.Fatalf("plain message mangled: %s", out)
	}
	if strings.Contains(out, "(MISSING)") {
		t.Fatalf("fmt artifact in output: %s", out)
	}
}
