// Package digitalocean finds DigitalOcean resources bound to an IP address.
//
// Droplets, load balancers, floating IPs and domain records are scanned
// through the godo client. Each listing is independent, so one failing
// API call degrades the result instead of aborting the whole discovery.
package digitalocean

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/digitalocean/godo"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/providers"
	"github.com/yairfalse/etsi/types"
)

const (
	callTimeout = 30 * time.Second
	perPage     = 200
)

// Adapter discovers DigitalOcean resources by IP.
type Adapter struct {
	droplets      DropletsAPI
	loadBalancers LoadBalancersAPI
	floatingIPs   FloatingIPsAPI
	domains       DomainsAPI
	account       AccountAPI
	logger        zerolog.Logger
}

func init() {
	providers.Register(types.ProviderDigitalOcean, New)
}

// New builds a DigitalOcean adapter from config. Returns ErrNotConfigured
// when no API token is set.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (providers.Adapter, error) {
	if !cfg.DigitalOcean.Configured() {
		return nil, providers.ErrNotConfigured
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.DigitalOcean.Token})
	oauthClient := oauth2.NewClient(ctx, source)
	oauthClient.Timeout = callTimeout
	client := godo.NewClient(oauthClient)

	return &Adapter{
		droplets:      client.Droplets,
		loadBalancers: client.LoadBalancers,
		floatingIPs:   client.FloatingIPs,
		domains:       client.Domains,
		account:       client.Account,
		logger:        logger.With().Str("provider", types.ProviderDigitalOcean).Logger(),
	}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return types.ProviderDigitalOcean
}

// TestConnection verifies the token by fetching the account.
func (a *Adapter) TestConnection(ctx context.Context) error {
	if _, _, err := a.account.Get(ctx); err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	return nil
}

// DiscoverByIP scans droplets, load balancers, floating IPs and domain
// records for the given IP. Failed listings become warnings on the outcome.
func (a *Adapter) DiscoverByIP(ctx context.Context, ip string) *types.Outcome {
	start := time.Now()
	outcome := &types.Outcome{Provider: types.ProviderDigitalOcean}

	scans := []struct {
		scope string
		fn    func(context.Context, string) ([]types.Resource, error)
	}{
		{"droplets", a.scanDroplets},
		{"load balancers", a.scanLoadBalancers},
		{"floating ips", a.scanFloatingIPs},
	}

	for _, s := range scans {
		resources, err := s.fn(ctx, ip)
		if err != nil {
			a.logger.Debug().Err(err).Str("scope", s.scope).Msg("scan failed")
			outcome.Warn(s.scope, err)
			continue
		}
		outcome.Resources = append(outcome.Resources, resources...)
	}

	a.scanDomains(ctx, ip, outcome)

	outcome.Duration = time.Since(start)
	return outcome
}

func (a *Adapter) scanDroplets(ctx context.Context, ip string) ([]types.Resource, error) {
	var matched []types.Resource
	opt := &godo.ListOptions{PerPage: perPage}

	for {
		droplets, resp, err := a.droplets.List(ctx, opt)
		if err != nil {
			return nil, fmt.Errorf("list droplets: %w", err)
		}

		for _, d := range droplets {
			r := convertDroplet(d)
			if r.HasIP(ip) {
				matched = append(matched, r)
			}
		}

		if lastPage(resp) {
			break
		}
		page, err := nextPage(resp)
		if err != nil {
			return nil, fmt.Errorf("droplets page link: %w", err)
		}
		opt.Page = page
	}

	return matched, nil
}

func (a *Adapter) scanLoadBalancers(ctx context.Context, ip string) ([]types.Resource, error) {
	var matched []types.Resource
	opt := &godo.ListOptions{PerPage: perPage}

	for {
		lbs, resp, err := a.loadBalancers.List(ctx, opt)
		if err != nil {
			return nil, fmt.Errorf("list load balancers: %w", err)
		}

		for _, lb := range lbs {
			r := convertLoadBalancer(lb)
			if r.HasIP(ip) {
				matched = append(matched, r)
			}
		}

		if lastPage(resp) {
			break
		}
		page, err := nextPage(resp)
		if err != nil {
			return nil, fmt.Errorf("load balancers page link: %w", err)
		}
		opt.Page = page
	}

	return matched, nil
}

func (a *Adapter) scanFloatingIPs(ctx context.Context, ip string) ([]types.Resource, error) {
	var matched []types.Resource
	opt := &godo.ListOptions{PerPage: perPage}

	for {
		fips, resp, err := a.floatingIPs.List(ctx, opt)
		if err != nil {
			return nil, fmt.Errorf("list floating ips: %w", err)
		}

		for _, fip := range fips {
			r := convertFloatingIP(fip)
			if r.HasIP(ip) {
				matched = append(matched, r)
			}
		}

		if lastPage(resp) {
			break
		}
		page, err := nextPage(resp)
		if err != nil {
			return nil, fmt.Errorf("floating ips page link: %w", err)
		}
		opt.Page = page
	}

	return matched, nil
}

// scanDomains lists all domains and checks their A/AAAA records against the
// IP. One domain failing to list records must not hide matches in the others.
func (a *Adapter) scanDomains(ctx context.Context, ip string, outcome *types.Outcome) {
	domains, err := a.listDomains(ctx)
	if err != nil {
		outcome.Warn("domains", err)
		return
	}

	for _, domain := range domains {
		matched, err := a.matchRecords(ctx, domain, ip)
		if err != nil {
			a.logger.Debug().Err(err).Str("domain", domain.Name).Msg("record listing failed")
			outcome.Warn("domain "+domain.Name, err)
			continue
		}
		outcome.Resources = append(outcome.Resources, matched...)
	}
}

func (a *Adapter) listDomains(ctx context.Context) ([]godo.Domain, error) {
	var all []godo.Domain
	opt := &godo.ListOptions{PerPage: perPage}

	for {
		domains, resp, err := a.domains.List(ctx, opt)
		if err != nil {
			return nil, fmt.Errorf("list domains: %w", err)
		}
		all = append(all, domains...)

		if lastPage(resp) {
			break
		}
		page, err := nextPage(resp)
		if err != nil {
			return nil, fmt.Errorf("domains page link: %w", err)
		}
		opt.Page = page
	}

	return all, nil
}

func (a *Adapter) matchRecords(ctx context.Context, domain godo.Domain, ip string) ([]types.Resource, error) {
	var matched []types.Resource
	opt := &godo.ListOptions{PerPage: perPage}

	for {
		records, resp, err := a.domains.Records(ctx, domain.Name, opt)
		if err != nil {
			return nil, fmt.Errorf("list records for %s: %w", domain.Name, err)
		}

		for _, record := range records {
			if record.Type != "A" && record.Type != "AAAA" {
				continue
			}
			if record.Data != ip {
				continue
			}
			matched = append(matched, convertDomainRecord(domain, record))
		}

		if lastPage(resp) {
			break
		}
		page, err := nextPage(resp)
		if err != nil {
			return nil, fmt.Errorf("records page link for %s: %w", domain.Name, err)
		}
		opt.Page = page
	}

	return matched, nil
}

func lastPage(resp *godo.Response) bool {
	return resp == nil || resp.Links == nil || resp.Links.IsLastPage()
}

func nextPage(resp *godo.Response) (int, error) {
	page, err := resp.Links.CurrentPage()
	if err != nil {
		return 0, err
	}
	return page + 1, nil
}

func convertDroplet(d godo.Droplet) types.Resource {
	r := types.Resource{
		Provider: types.ProviderDigitalOcean,
		Kind:     types.KindDroplet,
		Name:     d.Name,
		Status:   d.Status,
		Meta:     map[string]string{"droplet_id": strconv.Itoa(d.ID)},
	}
	if d.Region != nil {
		r.Zone = d.Region.Slug
	}
	if d.Networks != nil {
		for _, v4 := range d.Networks.V4 {
			r.IPs = append(r.IPs, v4.IPAddress)
		}
		for _, v6 := range d.Networks.V6 {
			r.IPs = append(r.IPs, v6.IPAddress)
		}
	}
	return r
}

func convertLoadBalancer(lb godo.LoadBalancer) types.Resource {
	r := types.Resource{
		Provider: types.ProviderDigitalOcean,
		Kind:     types.KindLoadBalancer,
		Name:     lb.Name,
		IPs:      []string{lb.IP},
		Status:   lb.Status,
		Meta:     map[string]string{"lb_id": lb.ID},
	}
	if lb.Region != nil {
		r.Zone = lb.Region.Slug
	}
	return r
}

// convertFloatingIP uses the address itself as the name, floating IPs
// have no other identity of their own.
func convertFloatingIP(fip godo.FloatingIP) types.Resource {
	r := types.Resource{
		Provider: types.ProviderDigitalOcean,
		Kind:     types.KindFloatingIP,
		Name:     fip.IP,
		IPs:      []string{fip.IP},
		Meta:     map[string]string{},
	}
	if fip.Region != nil {
		r.Zone = fip.Region.Slug
	}
	if fip.Droplet != nil {
		r.Meta["droplet"] = fip.Droplet.Name
	}
	return r
}

func convertDomainRecord(domain godo.Domain, record godo.DomainRecord) types.Resource {
	dnsName := domain.Name
	if record.Name != "" && record.Name != "@" {
		dnsName = record.Name + "." + domain.Name
	}
	return types.Resource{
		Provider: types.ProviderDigitalOcean,
		Kind:     types.KindDomainRecord,
		Name:     record.Name,
		DNSName:  dnsName,
		IPs:      []string{record.Data},
		Zone:     domain.Name,
		Meta: map[string]string{
			"record_id": strconv.Itoa(record.ID),
			"type":      record.Type,
			"ttl":       strconv.Itoa(record.TTL),
		},
	}
}
