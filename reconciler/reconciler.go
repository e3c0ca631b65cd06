// Package reconciler folds per-provider discovery outcomes into a single
// inventory keyed by resource identity.
package reconciler

import (
	"sort"

	"github.com/yairfalse/etsi/types"
)

// Merge combines outcomes into one inventory. Outcomes are processed in
// provider priority order, so when several providers return the same
// identifier the highest priority one names the entry and sets its kind.
// Later providers only add their own detail. Entries come out sorted by
// identifier, which makes the result independent of input order.
func Merge(ip string, outcomes []*types.Outcome) *Inventory {
	sorted := append([]*types.Outcome{}, outcomes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return types.ProviderRank(sorted[i].Provider) < types.ProviderRank(sorted[j].Provider)
	})

	byID := make(map[string]*Entry)
	for _, outcome := range sorted {
		for _, resource := range outcome.Resources {
			id := resource.Identifier()
			if id == "" {
				continue
			}

			entry, ok := byID[id]
			if !ok {
				byID[id] = &Entry{
					Identifier: id,
					Kind:       resource.Kind,
					Providers:  []string{outcome.Provider},
					Details:    map[string]types.Resource{outcome.Provider: resource},
				}
				continue
			}

			// One detail per provider per entry, the provider's first
			// match wins.
			if entry.Has(outcome.Provider) {
				continue
			}
			entry.Providers = append(entry.Providers, outcome.Provider)
			entry.Details[outcome.Provider] = resource
		}
	}

	inv := &Inventory{IP: ip, Entries: make([]Entry, 0, len(byID))}
	for _, entry := range byID {
		inv.Entries = append(inv.Entries, *entry)
	}
	sort.Slice(inv.Entries, func(i, j int) bool {
		return inv.Entries[i].Identifier < inv.Entries[j].Identifier
	})
	return inv
}
