package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/pitcrew/internal/seed"
	"github.com/okian/pitcrew/pkg/logger"
)

const defaultRunTimeout = 5 * time.Minute

func main() {
	var (
		baseURL   = flag.String("url", seed.DefaultBaseURL, "Base URL of the service")
		contacts  = flag.Int("contacts", seed.DefaultContacts, "Number of contacts to create")
		teams     = flag.Int("teams", seed.DefaultTeams, "Number of teams to create")
		members   = flag.Int("members", seed.DefaultMembersPerTeam, "Members added to each team besides its creator")
		messages  = flag.Int("messages", seed.DefaultMessages, "Callouts sent to each team")
		battles   = flag.Int("battles", seed.DefaultBattles, "Number of battles to create")
		workers   = flag.Int("workers", seed.DefaultWorkers, "Number of concurrent requests")
		timeout   = flag.Duration("timeout", seed.DefaultTimeout, "HTTP request timeout")
		logFile   = flag.String("log", "", "Also write log output to this file")
		logFormat = flag.String("log-format", "text", "Log format: text or json")
		verbose   = flag.Bool("verbose", false, "Log every request")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp(os.Stdout)
		return
	}

	closeLog, err := seed.SetupLogging(*logFile, *logFormat)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	config := &seed.Config{
		BaseURL:        *baseURL,
		Contacts:       *contacts,
		Teams:          *teams,
		MembersPerTeam: *members,
		Messages:       *messages,
		Battles:        *battles,
		Workers:        *workers,
		Timeout:        *timeout,
		Verbose:        *verbose,
	}

	if _, err := seed.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "seed failed", logger.Error(err))
		_ = closeLog()
		os.Exit(1)
	}
}
