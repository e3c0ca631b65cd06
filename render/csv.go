package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/yairfalse/etsi/search"
	"github.com/yairfalse/etsi/types"
)

var csvHeader = []string{"IP", "Identifier", "Kind", "Providers", "InCoolify", "InDigitalOcean", "InGCP"}

// CSV writes one row per merged entry. Membership columns carry Yes/No so
// the file diffs cleanly between runs.
func CSV(w io.Writer, report *search.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	if report.Inventory != nil {
		for _, entry := range report.Inventory.Entries {
			row := []string{
				report.IP,
				entry.Identifier,
				string(entry.Kind),
				entry.Label(),
				yesNo(entry.Has(types.ProviderCoolify)),
				yesNo(entry.Has(types.ProviderDigitalOcean)),
				yesNo(entry.Has(types.ProviderGCP)),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
