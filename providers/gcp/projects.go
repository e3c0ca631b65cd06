package gcp

import (
	"context"
	"fmt"
	"sync"
)

// projectDiscoverer lists ACTIVE projects through the resource manager and
// caches the result for the lifetime of the adapter. An empty listing means
// nothing is accessible, which is a valid answer, not a failure.
type projectDiscoverer struct {
	api  ProjectsAPI
	once sync.Once
	ids  []string
	err  error
}

func (d *projectDiscoverer) Projects(ctx context.Context) ([]string, error) {
	d.once.Do(func() {
		token := ""
		for {
			resp, err := d.api.ListProjects(ctx, token)
			if err != nil {
				d.err = fmt.Errorf("list projects: %w", err)
				return
			}
			for _, p := range resp.Projects {
				d.ids = append(d.ids, p.ProjectId)
			}
			if resp.NextPageToken == "" {
				return
			}
			token = resp.NextPageToken
		}
	})
	return d.ids, d.err
}
