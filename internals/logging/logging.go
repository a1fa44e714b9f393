package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Init wires the process-wide slog logger: tinted output on stderr plus an
// append-only log file under ~/.smithers. The file keeps debug detail even
// when the console level is raised.
func Init(level slog.Level) (*slog.Logger, *os.File) {
	var writer io.Writer = os.Stderr
	logFile := openLogFile()
	if logFile != nil {
		writer = io.MultiWriter(os.Stderr, logFile)
	}

	handler := tint.NewHandler(writer, &tint.Options{
		Level:   level,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, logFile
}

func openLogFile() *os.File {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir := filepath.Join(home, ".smithers")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	logFile, err := os.OpenFile(filepath.Join(dir, "log.txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	return logFile
}
