package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/yairfalse/etsi/search"
	"github.com/yairfalse/etsi/types"
)

type jsonReport struct {
	IP         string                  `json:"ip"`
	StartedAt  time.Time               `json:"started_at"`
	DurationMS int64                   `json:"duration_ms"`
	Providers  []search.ProviderReport `json:"providers"`
	Resources  []jsonEntry             `json:"resources"`
}

type jsonEntry struct {
	Identifier     string                    `json:"identifier"`
	Kind           types.Kind                `json:"kind"`
	Providers      []string                  `json:"providers"`
	Label          string                    `json:"label"`
	InCloudflare   bool                      `json:"in_cloudflare"`
	InCoolify      bool                      `json:"in_coolify"`
	InDigitalOcean bool                      `json:"in_digitalocean"`
	InGCP          bool                      `json:"in_gcp"`
	Details        map[string]types.Resource `json:"details"`
}

// JSON writes the machine readable view with per-provider membership
// flags on every entry.
func JSON(w io.Writer, report *search.Report) error {
	view := jsonReport{
		IP:         report.IP,
		StartedAt:  report.StartedAt,
		DurationMS: report.Duration.Milliseconds(),
		Providers:  report.Providers,
		Resources:  []jsonEntry{},
	}

	if report.Inventory != nil {
		for _, entry := range report.Inventory.Entries {
			view.Resources = append(view.Resources, jsonEntry{
				Identifier:     entry.Identifier,
				Kind:           entry.Kind,
				Providers:      entry.Providers,
				Label:          entry.Label(),
				InCloudflare:   entry.Has(types.ProviderCloudflare),
				InCoolify:      entry.Has(types.ProviderCoolify),
				InDigitalOcean: entry.Has(types.ProviderDigitalOcean),
				InGCP:          entry.Has(types.ProviderGCP),
				Details:        entry.Details,
			})
		}
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
