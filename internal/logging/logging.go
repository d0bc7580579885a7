package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the name of the rotating log file inside the log directory.
const LogFileName = "risk-mcs.log"

// SetLevel sets the global level: debug when verbose, info otherwise.
func SetLevel(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

// Init initializes the global logger with dual sinks: os.Stderr and a rotating
// file in logDir. stdout is left alone because it carries MCP traffic and
// result documents.
func Init(verbose bool, logDir string) error {
	if logDir == "" {
		return fmt.Errorf("no log directory configured")
	}

	fileWriter, err := newFileWriter(logDir)
	if err != nil {
		return err
	}

	SetLevel(verbose)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	log.Logger = New(consoleWriter, fileWriter)
	return nil
}

// New builds a timestamped logger writing to every sink.
func New(sinks ...io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.MultiLevelWriter(sinks...)).
		With().
		Timestamp().
		Logger()
}

func newFileWriter(logDir string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}

	// MkdirAll succeeding does not prove the directory is writable.
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return nil, fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}, nil
}
