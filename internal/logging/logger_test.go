package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tui.log")

	if err := Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Info("recommendation requested", "prompt", "治愈系")
	Printf{}.Printf("history failed: %v", "timeout")
	Close()
	Logger = nil

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"Movie cards started", "recommendation requested", "history failed: timeout", "shutting down"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	Logger = nil

	// Must not panic before Init
	Info("ignored")
	Debug("ignored")
	Warn("ignored")
	Error("ignored")
	Printf{}.Printf("ignored %d", 1)
	Close()
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath failed: %v", err)
	}
	if !strings.Contains(path, filepath.Join(".moviecards", "logs")) || !strings.HasSuffix(path, ".log") {
		t.Errorf("unexpected default path %q", path)
	}
}
