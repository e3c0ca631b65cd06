// Package gcp finds Google Cloud resources bound to an IP address.
//
// Compute instances, forwarding rules, Cloud Run services and GKE clusters
// are scanned across one or more projects. Projects come from config or
// from resource manager discovery, and are scanned through a bounded
// worker pool since each project means several API round trips.
package gcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	crm "google.golang.org/api/cloudresourcemanager/v1"
	compute "google.golang.org/api/compute/v1"
	container "google.golang.org/api/container/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	run "google.golang.org/api/run/v2"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/providers"
	"github.com/yairfalse/etsi/types"
)

const (
	callTimeout     = 30 * time.Second
	projectParallel = 5
)

// cloudRunRegions are the regions probed for Cloud Run services. The v2 API
// has no cross-region listing, so the adapter checks a fixed set.
var cloudRunRegions = []string{
	"us-central1", "us-east1", "us-east4", "us-west1",
	"europe-west1", "europe-west2", "europe-west3", "europe-west4",
	"asia-east1", "asia-northeast1", "asia-southeast1",
}

// Adapter discovers GCP resources by IP.
type Adapter struct {
	compute    ComputeAPI
	run        RunAPI
	container  ContainerAPI
	discoverer *projectDiscoverer
	projects   []string
	resolver   Resolver
	logger     zerolog.Logger
}

func init() {
	providers.Register(types.ProviderGCP, New)
}

// New builds a GCP adapter from config. Returns ErrNotConfigured when
// neither credentials, projects nor project discovery are set.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (providers.Adapter, error) {
	if !cfg.GCP.Configured() {
		return nil, providers.ErrNotConfigured
	}

	var opts []option.ClientOption
	if cfg.GCP.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCP.CredentialsFile))
	}

	computeSvc, err := compute.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create compute client: %w", err)
	}
	runSvc, err := run.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create cloud run client: %w", err)
	}
	containerSvc, err := container.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create container client: %w", err)
	}

	adapter := &Adapter{
		compute:   &computeClient{svc: computeSvc},
		run:       &runClient{svc: runSvc},
		container: &containerClient{svc: containerSvc},
		projects:  cfg.GCP.Projects,
		resolver:  net.DefaultResolver,
		logger:    logger.With().Str("provider", types.ProviderGCP).Logger(),
	}

	if cfg.GCP.DiscoverProjects {
		crmSvc, err := crm.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create resource manager client: %w", err)
		}
		adapter.discoverer = &projectDiscoverer{api: &projectsClient{svc: crmSvc}}
	}

	return adapter, nil
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return types.ProviderGCP
}

// TestConnection verifies credentials by resolving the project list and
// fetching the first project.
func (a *Adapter) TestConnection(ctx context.Context) error {
	projects, err := a.resolveProjects(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		if a.discoverer != nil {
			// The discovery round trip already proved the credentials;
			// zero accessible projects is a valid answer, not a failure.
			return nil
		}
		return errors.New("no projects configured")
	}
	if _, err := a.compute.GetProject(ctx, projects[0]); err != nil {
		return fmt.Errorf("get project %s: %w", projects[0], err)
	}
	return nil
}

// DiscoverByIP scans every resolved project for resources bound to the IP.
// Projects are scanned concurrently, results keep project order.
func (a *Adapter) DiscoverByIP(ctx context.Context, ip string) *types.Outcome {
	start := time.Now()
	outcome := &types.Outcome{Provider: types.ProviderGCP}

	projects, err := a.resolveProjects(ctx)
	if err != nil {
		outcome.Warn("projects", err)
		outcome.Duration = time.Since(start)
		return outcome
	}
	if len(projects) == 0 {
		a.logger.Warn().Msg("no projects to scan")
		outcome.Duration = time.Since(start)
		return outcome
	}

	results := make([]*types.Outcome, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(projectParallel)

	for i, project := range projects {
		g.Go(func() error {
			results[i] = a.scanProject(gctx, project, ip)
			return nil
		})
	}
	_ = g.Wait() // workers report failures as warnings, never as errors

	for _, res := range results {
		outcome.Resources = append(outcome.Resources, res.Resources...)
		outcome.Warnings = append(outcome.Warnings, res.Warnings...)
	}

	outcome.Duration = time.Since(start)
	return outcome
}

// resolveProjects returns the projects to scan: the discoverer's output
// when discovery is enabled, the configured list otherwise.
func (a *Adapter) resolveProjects(ctx context.Context) ([]string, error) {
	if a.discoverer == nil {
		return a.projects, nil
	}
	return a.discoverer.Projects(ctx)
}

func (a *Adapter) scanProject(ctx context.Context, project, ip string) *types.Outcome {
	res := &types.Outcome{Provider: types.ProviderGCP}

	if instances, err := a.scanInstances(ctx, project, ip); err != nil {
		a.logger.Debug().Err(err).Str("project", project).Msg("instance scan failed")
		res.Warn("project "+project+" instances", err)
	} else {
		res.Resources = append(res.Resources, instances...)
	}

	if rules, err := a.scanForwardingRules(ctx, project, ip); err != nil {
		a.logger.Debug().Err(err).Str("project", project).Msg("forwarding rule scan failed")
		res.Warn("project "+project+" forwarding rules", err)
	} else {
		res.Resources = append(res.Resources, rules...)
	}

	a.scanCloudRun(ctx, project, ip, res)

	if clusters, err := a.scanClusters(ctx, project, ip); err != nil {
		a.logger.Debug().Err(err).Str("project", project).Msg("cluster scan failed")
		res.Warn("project "+project+" clusters", err)
	} else {
		res.Resources = append(res.Resources, clusters...)
	}

	return res
}

func (a *Adapter) scanInstances(ctx context.Context, project, ip string) ([]types.Resource, error) {
	var matched []types.Resource
	token := ""

	for {
		list, err := a.compute.ListInstances(ctx, project, token)
		if err != nil {
			return nil, fmt.Errorf("list instances: %w", err)
		}

		for _, zone := range sortedKeys(list.Items) {
			for _, inst := range list.Items[zone].Instances {
				r := convertInstance(project, inst)
				if r.HasIP(ip) {
					matched = append(matched, r)
				}
			}
		}

		if list.NextPageToken == "" {
			break
		}
		token = list.NextPageToken
	}

	return matched, nil
}

// scanForwardingRules covers both global rules and the region-scoped
// aggregated listing, external load balancer IPs live in either.
func (a *Adapter) scanForwardingRules(ctx context.Context, project, ip string) ([]types.Resource, error) {
	var matched []types.Resource
	token := ""

	for {
		list, err := a.compute.ListGlobalForwardingRules(ctx, project, token)
		if err != nil {
			return nil, fmt.Errorf("list global forwarding rules: %w", err)
		}

		for _, rule := range list.Items {
			if rule.IPAddress == ip {
				matched = append(matched, convertForwardingRule(project, rule))
			}
		}

		if list.NextPageToken == "" {
			break
		}
		token = list.NextPageToken
	}

	token = ""
	for {
		list, err := a.compute.ListRegionForwardingRules(ctx, project, token)
		if err != nil {
			return nil, fmt.Errorf("list region forwarding rules: %w", err)
		}

		for _, region := range sortedKeys(list.Items) {
			for _, rule := range list.Items[region].ForwardingRules {
				if rule.IPAddress == ip {
					matched = append(matched, convertForwardingRule(project, rule))
				}
			}
		}

		if list.NextPageToken == "" {
			break
		}
		token = list.NextPageToken
	}

	return matched, nil
}

// scanCloudRun probes each region and resolves service URLs to compare
// addresses. Regions without the API enabled are skipped, resolution
// failures for single services are ignored.
func (a *Adapter) scanCloudRun(ctx context.Context, project, ip string, outcome *types.Outcome) {
	for _, region := range cloudRunRegions {
		resp, err := a.run.ListServices(ctx, project, region)
		if err != nil {
			if apiUnavailable(err) {
				continue
			}
			outcome.Warn(fmt.Sprintf("project %s cloud run %s", project, region), err)
			continue
		}

		for _, service := range resp.Services {
			host := serviceHost(service.Uri)
			if host == "" {
				continue
			}
			addrs, err := a.resolver.LookupIP(ctx, "ip4", host)
			if err != nil {
				a.logger.Debug().Err(err).Str("host", host).Msg("resolve failed")
				continue
			}

			ips := make([]string, 0, len(addrs))
			match := false
			for _, addr := range addrs {
				s := addr.String()
				ips = append(ips, s)
				if s == ip {
					match = true
				}
			}
			if match {
				outcome.Resources = append(outcome.Resources, convertService(project, region, service, host, ips))
			}
		}
	}
}

func (a *Adapter) scanClusters(ctx context.Context, project, ip string) ([]types.Resource, error) {
	resp, err := a.container.ListClusters(ctx, project)
	if err != nil {
		if apiUnavailable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list clusters: %w", err)
	}

	var matched []types.Resource
	for _, cluster := range resp.Clusters {
		if cluster.Endpoint == ip {
			matched = append(matched, convertCluster(project, cluster))
		}
	}
	return matched, nil
}

// apiUnavailable reports whether the error means the API is simply not
// enabled for the project or region.
func apiUnavailable(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && (gerr.Code == http.StatusForbidden || gerr.Code == http.StatusNotFound)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lastSegment(u string) string {
	if u == "" {
		return ""
	}
	parts := strings.Split(u, "/")
	return parts[len(parts)-1]
}

func serviceHost(uri string) string {
	if uri == "" {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Host
}

func convertInstance(project string, inst *compute.Instance) types.Resource {
	r := types.Resource{
		Provider: types.ProviderGCP,
		Kind:     types.KindComputeInstance,
		Name:     inst.Name,
		Project:  project,
		Zone:     lastSegment(inst.Zone),
		Status:   inst.Status,
		Meta:     map[string]string{"machine_type": lastSegment(inst.MachineType)},
	}
	for _, ni := range inst.NetworkInterfaces {
		if ni.NetworkIP != "" {
			r.IPs = append(r.IPs, ni.NetworkIP)
		}
		for _, ac := range ni.AccessConfigs {
			if ac.NatIP != "" {
				r.IPs = append(r.IPs, ac.NatIP)
			}
		}
	}
	return r
}

func convertForwardingRule(project string, rule *compute.ForwardingRule) types.Resource {
	target := rule.Target
	if target == "" {
		target = rule.BackendService
	}
	r := types.Resource{
		Provider: types.ProviderGCP,
		Kind:     types.KindForwardingRule,
		Name:     rule.Name,
		Project:  project,
		IPs:      []string{rule.IPAddress},
		Meta:     map[string]string{"target": lastSegment(target)},
	}
	if rule.Region != "" {
		r.Zone = lastSegment(rule.Region)
	}
	if rule.PortRange != "" {
		r.Meta["port_range"] = rule.PortRange
	}
	return r
}

func convertService(project, region string, service *run.GoogleCloudRunV2Service, host string, ips []string) types.Resource {
	return types.Resource{
		Provider: types.ProviderGCP,
		Kind:     types.KindCloudRunService,
		Name:     lastSegment(service.Name),
		DNSName:  host,
		IPs:      ips,
		Project:  project,
		Zone:     region,
		Meta:     map[string]string{"uri": service.Uri},
	}
}

func convertCluster(project string, cluster *container.Cluster) types.Resource {
	return types.Resource{
		Provider: types.ProviderGCP,
		Kind:     types.KindGKECluster,
		Name:     cluster.Name,
		Project:  project,
		Zone:     cluster.Location,
		Status:   cluster.Status,
		IPs:      []string{cluster.Endpoint},
		Meta:     map[string]string{"version": cluster.CurrentMasterVersion},
	}
}
