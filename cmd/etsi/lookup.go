package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/history"
	"github.com/yairfalse/etsi/providers"
	"github.com/yairfalse/etsi/render"
	"github.com/yairfalse/etsi/search"
)

// LookupCommand implements the IP lookup behind 'etsi all' and the
// per-provider commands
type LookupCommand struct {
	Provider  string `help:"Provider to query, empty means all"`
	IP        string `help:"IP address to search for"`
	Format    string `help:"Output format: table, json, csv, simple" default:"table"`
	Output    string `help:"Write output to a file instead of stdout"`
	NoHistory bool   `help:"Skip recording this lookup" default:"false"`
}

// Run executes the lookup
func (cmd *LookupCommand) Run() error {
	if net.ParseIP(cmd.IP) == nil {
		return fmt.Errorf("invalid IP address %q", cmd.IP)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s := search.New(cfg, log.Logger)

	var report *search.Report
	if cmd.Provider == "" {
		report, err = s.Run(ctx, cmd.IP)
	} else {
		report, err = s.RunProvider(ctx, cmd.Provider, cmd.IP)
	}
	if err != nil {
		return describeRunError(err, cmd.Provider)
	}

	if !cmd.NoHistory {
		cmd.recordHistory(report)
	}

	if cmd.Output != "" {
		return render.ToFile(cmd.Output, cmd.Format, report)
	}
	return render.Render(os.Stdout, cmd.Format, report)
}

// describeRunError turns sentinel errors into actionable messages
func describeRunError(err error, provider string) error {
	switch {
	case errors.Is(err, search.ErrNoProviders):
		return fmt.Errorf("%w, run 'etsi <provider> config set' first", err)
	case errors.Is(err, providers.ErrNotConfigured):
		return fmt.Errorf("%w, run 'etsi %s config set' first", err, provider)
	}
	return err
}

// recordHistory saves the report. Lookup output never depends on it, a
// broken history file only costs a debug line.
func (cmd *LookupCommand) recordHistory(report *search.Report) {
	path, err := history.DefaultPath()
	if err != nil {
		log.Debug().Err(err).Msg("history path unavailable")
		return
	}

	store, err := history.Open(path)
	if err != nil {
		log.Debug().Err(err).Msg("history unavailable")
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.Save(report); err != nil {
		log.Debug().Err(err).Msg("history save failed")
	}
}
