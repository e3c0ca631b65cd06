package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/yairfalse/etsi/history"
)

// HistoryCommand implements the 'etsi history' command
type HistoryCommand struct {
	Limit int    `help:"Number of lookups to show" default:"10"`
	IP    string `help:"Only lookups of this IP"`
}

// Run executes the history command
func (cmd *HistoryCommand) Run() error {
	path, err := history.DefaultPath()
	if err != nil {
		return err
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reports, err := store.List(cmd.Limit, cmd.IP)
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Println("no recorded lookups")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tIP\tFOUND\tPROVIDERS")
	for _, report := range reports {
		found := 0
		label := "-"
		if report.Inventory != nil {
			found = len(report.Inventory.Entries)
			if matched := report.Inventory.Providers(); len(matched) > 0 {
				label = strings.Join(matched, "+")
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			report.StartedAt.Local().Format("2006-01-02 15:04:05"),
			report.IP, found, label)
	}
	return w.Flush()
}
