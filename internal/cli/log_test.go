package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestConfigLevelFiltersOutput(t *testing.T) {
	tests := []struct {
		name      string
		wantLevel log.Level
		wantDebug bool
		wantInfo  bool
	}{
		{"", log.InfoLevel, false, true},
		{"debug", log.DebugLevel, true, true},
		{"warn", log.WarnLevel, false, false},
		{"error", log.ErrorLevel, false, false},
		{"chatty", log.InfoLevel, false, true},
	}

	for _, tt := range tests {
		t.Run("level="+tt.name, func(t *testing.T) {
			level := configLevel(tt.name)
			if level != tt.wantLevel {
				t.Fatalf("configLevel(%q) = %v, want %v", tt.name, level, tt.wantLevel)
			}

			var buf bytes.Buffer
			logger := newLogger(&buf, level)
			logger.Debug("line skipped", "line", 3)
			logger.Info("ingest complete", "segments", 2)

			out := buf.String()
			if got := strings.Contains(out, "line skipped"); got != tt.wantDebug {
				t.Errorf("debug written = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "ingest complete"); got != tt.wantInfo {
				t.Errorf("info written = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Loaded sample.gfa")

	out := buf.String()
	if !strings.Contains(out, "Loaded sample.gfa (") {
		t.Errorf("progress output %q lacks message with elapsed time", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}
}
