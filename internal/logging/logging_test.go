package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestNew_WritesToAllSinks(t *testing.T) {
	var a, b bytes.Buffer
	logger := New(&a, &b)

	logger.Info().Str("run_id", "abc").Msg("Simulation started")

	for _, out := range []string{a.String(), b.String()} {
		if !strings.Contains(out, `"run_id":"abc"`) || !strings.Contains(out, `"time"`) {
			t.Errorf("Expected a timestamped JSON line with run_id, got %q", out)
		}
	}
}

func TestNewFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	w, err := newFileWriter(dir)
	if err != nil {
		t.Fatalf("newFileWriter failed: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("line\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, LogFileName)); err != nil {
		t.Errorf("Expected log file to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Errorf("Expected write probe to be removed, got %v", err)
	}
}

func TestInit_UsesLogDir(t *testing.T) {
	origLogger, origLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
	})

	dir := filepath.Join(t.TempDir(), "custom-logs")
	if err := Init(true, dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	log.Info().Msg("Configured log directory")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("Expected log file in %s: %v", dir, err)
	}
	if !strings.Contains(string(data), "Configured log directory") {
		t.Errorf("Expected the message in the log file, got %q", data)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level when verbose, got %s", zerolog.GlobalLevel())
	}
}

func TestInit_RequiresLogDir(t *testing.T) {
	if err := Init(false, ""); err == nil {
		t.Errorf("Expected an error without a log directory")
	}
}
