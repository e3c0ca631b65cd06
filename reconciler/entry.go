package reconciler

import (
	"sort"
	"strings"

	"github.com/yairfalse/etsi/types"
)

// Entry is one identity in the merged inventory: a resource name or DNS
// name together with every provider that claims it. Kind comes from the
// highest priority provider.
type Entry struct {
	Identifier string                    `json:"identifier"`
	Kind       types.Kind                `json:"kind"`
	Providers  []string                  `json:"providers"`
	Details    map[string]types.Resource `json:"details"`
}

// Has reports whether the provider contributed to this entry.
func (e *Entry) Has(provider string) bool {
	for _, p := range e.Providers {
		if p == provider {
			return true
		}
	}
	return false
}

// Label names the provider set, "all" when every known provider matched.
func (e *Entry) Label() string {
	if len(e.Providers) == len(types.Providers) {
		return "all"
	}
	sorted := append([]string{}, e.Providers...)
	sort.Strings(sorted)
	return strings.Join(sorted, "+")
}

// Inventory is the merged result of one lookup.
type Inventory struct {
	IP      string  `json:"ip"`
	Entries []Entry `json:"entries"`
}

// Providers returns every provider with at least one entry, in priority
// order.
func (inv *Inventory) Providers() []string {
	seen := make(map[string]bool)
	for _, e := range inv.Entries {
		for _, p := range e.Providers {
			seen[p] = true
		}
	}

	var out []string
	for _, p := range types.Providers {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out
}
