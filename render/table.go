package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/yairfalse/etsi/search"
)

// Table writes the human readable default view: provider status block,
// merged entries, then any warnings.
func Table(w io.Writer, report *search.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "IP\t%s\n", report.IP)
	fmt.Fprintf(tw, "DURATION\t%s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "PROVIDER\tSTATUS\tFOUND")
	for _, pr := range report.Providers {
		found := strconv.Itoa(pr.Found)
		if pr.Status == search.StatusNotConfigured || pr.Status == search.StatusAuthFailed {
			found = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", pr.Provider, pr.Status, found)
	}
	fmt.Fprintln(tw)

	if report.Inventory == nil || len(report.Inventory.Entries) == 0 {
		fmt.Fprintf(tw, "no resources found for %s\n", report.IP)
	} else {
		fmt.Fprintln(tw, "IDENTIFIER\tKIND\tPROVIDERS")
		for _, entry := range report.Inventory.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Identifier, entry.Kind, entry.Label())
		}
	}

	if warnings := collectWarnings(report); len(warnings) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "WARNINGS")
		for _, warning := range warnings {
			fmt.Fprintf(tw, "%s\t%s\n", warning.Scope, warning.Err)
		}
	}

	return tw.Flush()
}
