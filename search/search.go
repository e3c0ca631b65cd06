// Package search orchestrates IP lookups across providers and merges the
// results into a single report.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/providers"
	"github.com/yairfalse/etsi/reconciler"
	"github.com/yairfalse/etsi/types"
)

// ErrNoProviders is returned by Run when not a single provider has
// credentials.
var ErrNoProviders = errors.New("no providers configured")

// Search runs IP lookups against configured providers.
type Search struct {
	cfg     *config.Config
	logger  zerolog.Logger
	factory func(ctx context.Context, name string) (providers.Adapter, error)
}

// New builds a search over the resolved configuration.
func New(cfg *config.Config, logger zerolog.Logger) *Search {
	s := &Search{cfg: cfg, logger: logger}
	s.factory = func(ctx context.Context, name string) (providers.Adapter, error) {
		return providers.New(ctx, name, cfg, s.logger)
	}
	return s
}

// Run queries every provider in priority order. Unconfigured providers are
// recorded and skipped, failed credential checks keep the run alive for
// the other providers. Only when nothing at all is configured does the
// run fail with ErrNoProviders.
func (s *Search) Run(ctx context.Context, ip string) (*Report, error) {
	report := &Report{IP: ip, StartedAt: time.Now()}

	var outcomes []*types.Outcome
	configured := 0

	for _, name := range types.Providers {
		adapter, err := s.factory(ctx, name)
		if errors.Is(err, providers.ErrNotConfigured) {
			report.Providers = append(report.Providers, ProviderReport{
				Provider: name,
				Status:   StatusNotConfigured,
			})
			continue
		}

		configured++
		if err != nil {
			s.logger.Warn().Err(err).Str("provider", name).Msg("adapter construction failed")
			report.Providers = append(report.Providers, ProviderReport{
				Provider: name,
				Status:   StatusAuthFailed,
				Err:      err.Error(),
			})
			continue
		}

		if err := adapter.TestConnection(ctx); err != nil {
			s.logger.Warn().Err(err).Str("provider", name).Msg("connection test failed")
			report.Providers = append(report.Providers, ProviderReport{
				Provider: name,
				Status:   StatusAuthFailed,
				Err:      err.Error(),
			})
			continue
		}

		s.logger.Debug().Str("provider", name).Str("ip", ip).Msg("discovering")
		outcome := adapter.DiscoverByIP(ctx, ip)
		outcomes = append(outcomes, outcome)

		status := StatusOK
		if outcome.Partial() {
			status = StatusPartial
		}
		report.Providers = append(report.Providers, ProviderReport{
			Provider: name,
			Status:   status,
			Found:    len(outcome.Resources),
			Warnings: outcome.Warnings,
		})
	}

	if configured == 0 {
		return nil, ErrNoProviders
	}

	report.Inventory = reconciler.Merge(ip, outcomes)
	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// RunProvider queries a single provider. Unlike Run, an unconfigured
// provider or a failed credential check is fatal here, the user asked for
// this provider specifically.
func (s *Search) RunProvider(ctx context.Context, name, ip string) (*Report, error) {
	report := &Report{IP: ip, StartedAt: time.Now()}

	adapter, err := s.factory(ctx, name)
	if err != nil {
		if errors.Is(err, providers.ErrNotConfigured) {
			return nil, fmt.Errorf("%s: %w", name, providers.ErrNotConfigured)
		}
		return nil, err
	}

	if err := adapter.TestConnection(ctx); err != nil {
		return nil, fmt.Errorf("%s authentication failed: %w", name, err)
	}

	outcome := adapter.DiscoverByIP(ctx, ip)

	status := StatusOK
	if outcome.Partial() {
		status = StatusPartial
	}
	report.Providers = []ProviderReport{{
		Provider: name,
		Status:   status,
		Found:    len(outcome.Resources),
		Warnings: outcome.Warnings,
	}}
	report.Inventory = reconciler.Merge(ip, []*types.Outcome{outcome})
	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// TestProvider checks credentials for one provider without discovering
// anything.
func (s *Search) TestProvider(ctx context.Context, name string) error {
	adapter, err := s.factory(ctx, name)
	if err != nil {
		return err
	}
	return adapter.TestConnection(ctx)
}
