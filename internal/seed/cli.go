package seed

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/pitcrew/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging sends log output to stdout and, when logFile is set, to that
// file as well. It returns a function closing the file.
func SetupLogging(logFile, format string) (func() error, error) {
	if logFile == "" {
		return func() error { return nil }, logger.InitWithWriter(os.Stdout, format)
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file), format); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file.Close, nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Pitcrew Seed Tool
=================

Fills a running pitcrew service with contacts, teams, battles and team
messages through its HTTP API, then reads everything back.

Usage:
  go run ./cmd/seed [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -contacts int
        Number of contacts to create (default 12)
  -teams int
        Number of teams to create (default 2)
  -members int
        Members added to each team besides its creator (default 3)
  -messages int
        Callouts sent to each team (default 9)
  -battles int
        Number of battles to create (default 6)
  -workers int
        Number of concurrent requests (default 4)
  -timeout duration
        HTTP request timeout (default 10s)
  -log string
        Also write log output to this file
  -verbose
        Log every request
  -help
        Show this help message

Examples:
  # Seed a local service with the defaults
  go run ./cmd/seed

  # Larger run against another host
  go run ./cmd/seed -url http://localhost:8080 -teams 5 -messages 50 -workers 16
`)
}
