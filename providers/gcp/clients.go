package gcp

import (
	"context"
	"fmt"

	crm "google.golang.org/api/cloudresourcemanager/v1"
	compute "google.golang.org/api/compute/v1"
	container "google.golang.org/api/container/v1"
	run "google.golang.org/api/run/v2"
)

// The generated Google API clients expose call builders on nested
// sub-services, so thin wrappers adapt them to the interfaces above and
// apply the per-call timeout in one place.

type computeClient struct {
	svc *compute.Service
}

func (c *computeClient) ListInstances(ctx context.Context, project, pageToken string) (*compute.InstanceAggregatedList, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	call := c.svc.Instances.AggregatedList(project).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

func (c *computeClient) ListGlobalForwardingRules(ctx context.Context, project, pageToken string) (*compute.ForwardingRuleList, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	call := c.svc.GlobalForwardingRules.List(project).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

func (c *computeClient) ListRegionForwardingRules(ctx context.Context, project, pageToken string) (*compute.ForwardingRuleAggregatedList, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	call := c.svc.ForwardingRules.AggregatedList(project).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

func (c *computeClient) GetProject(ctx context.Context, project string) (*compute.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	return c.svc.Projects.Get(project).Context(ctx).Do()
}

type runClient struct {
	svc *run.Service
}

func (c *runClient) ListServices(ctx context.Context, project, region string) (*run.GoogleCloudRunV2ListServicesResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	parent := fmt.Sprintf("projects/%s/locations/%s", project, region)
	return c.svc.Projects.Locations.Services.List(parent).Context(ctx).Do()
}

type containerClient struct {
	svc *container.Service
}

func (c *containerClient) ListClusters(ctx context.Context, project string) (*container.ListClustersResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	parent := fmt.Sprintf("projects/%s/locations/-", project)
	return c.svc.Projects.Locations.Clusters.List(parent).Context(ctx).Do()
}

type projectsClient struct {
	svc *crm.Service
}

func (c *projectsClient) ListProjects(ctx context.Context, pageToken string) (*crm.ListProjectsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	call := c.svc.Projects.List().Filter("lifecycleState:ACTIVE").Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}
