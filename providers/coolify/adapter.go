// Package coolify discovers servers and the applications, services and
// databases deployed on them through the Coolify v1 API.
package coolify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/providers"
	"github.com/yairfalse/etsi/types"
)

// Adapter implements discovery against a Coolify instance.
type Adapter struct {
	api    API
	logger zerolog.Logger
}

func init() {
	providers.Register(types.ProviderCoolify, New)
}

// New builds the adapter from resolved configuration.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (providers.Adapter, error) {
	if !cfg.Coolify.Configured() {
		return nil, providers.ErrNotConfigured
	}
	return &Adapter{
		api:    NewClient(cfg.Coolify.BaseURL, cfg.Coolify.APIToken),
		logger: logger.With().Str("provider", types.ProviderCoolify).Logger(),
	}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() string { return types.ProviderCoolify }

// TestConnection probes the version endpoint.
func (a *Adapter) TestConnection(ctx context.Context) error {
	if _, err := a.api.Version(ctx); err != nil {
		return fmt.Errorf("version probe: %w", err)
	}
	return nil
}

// DiscoverByIP keeps servers whose IP equals the query, then walks every
// project's environments and keeps applications, services and databases
// whose destination server matched (by identity or by its embedded IP).
// A failing project or environment fetch is a warning, never a stop.
func (a *Adapter) DiscoverByIP(ctx context.Context, ip string) *types.Outcome {
	start := time.Now()
	outcome := &types.Outcome{Provider: types.ProviderCoolify}

	matched := make(map[string]Server)
	servers, err := a.api.Servers(ctx)
	if err != nil {
		// Resources can still match through their embedded server IP.
		outcome.Warn("servers", err)
	}
	for _, server := range servers {
		if server.IP != ip {
			continue
		}
		matched[server.UUID] = server
		outcome.Resources = append(outcome.Resources, convertServer(server))
	}

	projects, err := a.api.Projects(ctx)
	if err != nil {
		outcome.Warn("projects", err)
		outcome.Duration = time.Since(start)
		return outcome
	}

	for _, project := range projects {
		a.walkProject(ctx, project, matched, ip, outcome)
	}

	outcome.Duration = time.Since(start)
	return outcome
}

func (a *Adapter) walkProject(ctx context.Context, project Project, matched map[string]Server, ip string, outcome *types.Outcome) {
	details, err := a.api.Project(ctx, project.UUID)
	if err != nil {
		a.logger.Debug().Err(err).Str("project", project.Name).Msg("project fetch failed")
		outcome.Warn("project "+project.Name, err)
		return
	}

	for _, env := range details.Environments {
		envDetails, err := a.api.Environment(ctx, project.UUID, env.Name)
		if err != nil {
			a.logger.Debug().Err(err).
				Str("project", project.Name).
				Str("environment", env.Name).
				Msg("environment fetch failed")
			outcome.Warn(fmt.Sprintf("project %s environment %s", project.Name, env.Name), err)
			continue
		}

		for _, app := range envDetails.Applications {
			if !destinationMatches(app.Destination, matched, ip) {
				continue
			}
			outcome.Resources = append(outcome.Resources,
				convertWorkload(types.KindApplication, project, env, app.UUID, app.Name, app.FQDN, app.Status, app.Destination))
		}
		for _, svc := range envDetails.Services {
			if !destinationMatches(svc.Destination, matched, ip) {
				continue
			}
			outcome.Resources = append(outcome.Resources,
				convertWorkload(types.KindService, project, env, svc.UUID, svc.Name, svc.FQDN, svc.Status, svc.Destination))
		}
		for _, db := range envDetails.Databases {
			if !destinationMatches(db.Destination, matched, ip) {
				continue
			}
			outcome.Resources = append(outcome.Resources,
				convertWorkload(types.KindDatabase, project, env, db.UUID, db.Name, "", db.Status, db.Destination))
		}
	}
}

// destinationMatches reports whether a workload sits on a server that
// matched the query, either by identity or by the destination's own IP.
func destinationMatches(dest *Destination, matched map[string]Server, ip string) bool {
	if dest == nil || dest.Server == nil {
		return false
	}
	if _, ok := matched[dest.Server.UUID]; ok {
		return true
	}
	return dest.Server.IP == ip
}

func convertServer(server Server) types.Resource {
	return types.Resource{
		Provider: types.ProviderCoolify,
		Kind:     types.KindServer,
		Name:     server.Name,
		IPs:      []string{server.IP},
		Meta:     map[string]string{"uuid": server.UUID},
	}
}

func convertWorkload(kind types.Kind, project Project, env Environment, uuid, name, fqdn, status string, dest *Destination) types.Resource {
	r := types.Resource{
		Provider: types.ProviderCoolify,
		Kind:     kind,
		Name:     name,
		DNSName:  firstFQDN(fqdn),
		Project:  project.Name,
		Status:   status,
		Meta:     map[string]string{"uuid": uuid, "environment": env.Name},
	}
	if dest != nil && dest.Server != nil {
		r.IPs = []string{dest.Server.IP}
		r.Meta["server"] = dest.Server.Name
	}
	return r
}

// firstFQDN picks the first of a comma-separated FQDN list and strips
// scheme and path, leaving a bare hostname.
func firstFQDN(fqdn string) string {
	if fqdn == "" {
		return ""
	}
	first := fqdn
	if i := strings.Index(first, ","); i >= 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)
	first = strings.TrimPrefix(first, "https://")
	first = strings.TrimPrefix(first, "http://")
	if i := strings.Index(first, "/"); i >= 0 {
		first = first[:i]
	}
	return first
}
