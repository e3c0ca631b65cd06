// Package cloudflare discovers DNS records bound to an IP across every
// zone the API token can see.
package cloudflare

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	cf "github.com/cloudflare/cloudflare-go"
	"github.com/rs/zerolog"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/providers"
	"github.com/yairfalse/etsi/types"
)

const (
	callTimeout    = 30 * time.Second
	zonesPerPage   = 50
	recordsPerPage = 100
)

// Adapter implements discovery against the Cloudflare v4 API.
type Adapter struct {
	api    API
	logger zerolog.Logger
}

func init() {
	providers.Register(types.ProviderCloudflare, New)
}

// New builds the adapter from resolved configuration.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (providers.Adapter, error) {
	if !cfg.Cloudflare.Configured() {
		return nil, providers.ErrNotConfigured
	}

	api, err := cf.NewWithAPIToken(cfg.Cloudflare.APIToken,
		cf.HTTPClient(&http.Client{Timeout: callTimeout}))
	if err != nil {
		return nil, fmt.Errorf("create cloudflare client: %w", err)
	}

	return &Adapter{
		api:    api,
		logger: logger.With().Str("provider", types.ProviderCloudflare).Logger(),
	}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() string { return types.ProviderCloudflare }

// TestConnection verifies the API token without walking any zones.
func (a *Adapter) TestConnection(ctx context.Context) error {
	body, err := a.api.VerifyAPIToken(ctx)
	if err != nil {
		return fmt.Errorf("verify api token: %w", err)
	}
	if body.Status != "active" {
		return fmt.Errorf("api token status is %q, want active", body.Status)
	}
	return nil
}

// DiscoverByIP walks every zone's records and keeps address records
// whose content equals ip. A zone whose record listing fails becomes a
// warning; the remaining zones still get walked.
func (a *Adapter) DiscoverByIP(ctx context.Context, ip string) *types.Outcome {
	start := time.Now()
	outcome := &types.Outcome{Provider: types.ProviderCloudflare}

	zones, err := a.listZones(ctx)
	if err != nil {
		outcome.Warn("zones", err)
		outcome.Duration = time.Since(start)
		return outcome
	}

	for _, zone := range zones {
		matched, err := a.matchRecords(ctx, zone, ip)
		if err != nil {
			a.logger.Debug().Err(err).Str("zone", zone.Name).Msg("record listing failed")
			outcome.Warn("zone "+zone.Name, err)
			continue
		}
		outcome.Resources = append(outcome.Resources, matched...)
	}

	outcome.Duration = time.Since(start)
	return outcome
}

// listZones pages through every zone visible to the token.
func (a *Adapter) listZones(ctx context.Context) ([]cf.Zone, error) {
	var zones []cf.Zone
	page := 1

	for {
		resp, err := a.api.ListZonesContext(ctx,
			cf.WithPagination(cf.PaginationOptions{Page: page, PerPage: zonesPerPage}))
		if err != nil {
			return nil, fmt.Errorf("list zones: %w", err)
		}
		zones = append(zones, resp.Result...)

		if resp.ResultInfo.Page >= resp.ResultInfo.TotalPages {
			break
		}
		page = resp.ResultInfo.Page + 1
	}

	return zones, nil
}

// matchRecords pages one zone's records, keeping A/AAAA records whose
// content equals ip.
func (a *Adapter) matchRecords(ctx context.Context, zone cf.Zone, ip string) ([]types.Resource, error) {
	var matched []types.Resource
	params := cf.ListDNSRecordsParams{ResultInfo: cf.ResultInfo{PerPage: recordsPerPage}}

	for {
		records, info, err := a.api.ListDNSRecords(ctx, cf.ZoneIdentifier(zone.ID), params)
		if err != nil {
			return nil, fmt.Errorf("list dns records: %w", err)
		}

		for _, record := range records {
			if record.Type != "A" && record.Type != "AAAA" {
				continue
			}
			if record.Content != ip {
				continue
			}
			matched = append(matched, convertRecord(zone, record))
		}

		if info == nil || info.Page >= info.TotalPages {
			break
		}
		params.ResultInfo.Page = info.Page + 1
	}

	return matched, nil
}

func convertRecord(zone cf.Zone, record cf.DNSRecord) types.Resource {
	r := types.Resource{
		Provider: types.ProviderCloudflare,
		Kind:     types.KindDNSRecord,
		Name:     record.Name,
		DNSName:  record.Name,
		IPs:      []string{record.Content},
		Zone:     zone.Name,
		Meta: map[string]string{
			"record_id": record.ID,
			"type":      record.Type,
			"ttl":       strconv.Itoa(record.TTL),
		},
	}
	if record.Proxied != nil {
		r.Meta["proxied"] = strconv.FormatBool(*record.Proxied)
	}
	return r
}
