package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/yairfalse/etsi/search"
)

// Simple writes bare identifier lists for shell pipelines. Single provider
// lookups get one flat list, multi provider lookups get one block per
// provider with matches plus a summary line.
func Simple(w io.Writer, report *search.Report) error {
	inv := report.Inventory
	if inv == nil || len(inv.Entries) == 0 {
		_, err := fmt.Fprintf(w, "no resources found for %s\n", report.IP)
		return err
	}

	if len(report.Providers) == 1 {
		fmt.Fprintln(w, report.IP)
		for _, entry := range inv.Entries {
			fmt.Fprintf(w, "  %s\n", entry.Identifier)
		}
		return nil
	}

	matched := inv.Providers()
	for _, provider := range matched {
		fmt.Fprintf(w, "%s:\n", provider)
		for _, entry := range inv.Entries {
			if entry.Has(provider) {
				fmt.Fprintf(w, "  %s\n", entry.Identifier)
			}
		}
	}
	fmt.Fprintf(w, "\nfound %d resources; providers with matches: %s\n",
		len(inv.Entries), strings.Join(matched, ", "))
	return nil
}
