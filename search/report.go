package search

import (
	"time"

	"github.com/yairfalse/etsi/reconciler"
	"github.com/yairfalse/etsi/types"
)

// Provider status values in a report. A provider is exactly one of these
// per run; not configured, failed auth and partial results are distinct
// answers.
const (
	StatusNotConfigured = "not_configured"
	StatusOK            = "ok"
	StatusPartial       = "partial"
	StatusAuthFailed    = "auth_failed"
)

// ProviderReport describes how one provider fared during a lookup.
type ProviderReport struct {
	Provider string          `json:"provider"`
	Status   string          `json:"status"`
	Found    int             `json:"found"`
	Warnings []types.Warning `json:"warnings,omitempty"`
	Err      string          `json:"error,omitempty"`
}

// Report is the full result of one lookup.
type Report struct {
	IP        string                `json:"ip"`
	StartedAt time.Time             `json:"started_at"`
	Duration  time.Duration         `json:"duration"`
	Providers []ProviderReport      `json:"providers"`
	Inventory *reconciler.Inventory `json:"inventory"`
}

// Provider returns the report for one provider, nil when absent.
func (r *Report) Provider(name string) *ProviderReport {
	for i := range r.Providers {
		if r.Providers[i].Provider == name {
			return &r.Providers[i]
		}
	}
	return nil
}
