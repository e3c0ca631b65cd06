package gcp

import (
	"context"
	"net"

	crm "google.golang.org/api/cloudresourcemanager/v1"
	compute "google.golang.org/api/compute/v1"
	container "google.golang.org/api/container/v1"
	run "google.golang.org/api/run/v2"
)

// ComputeAPI defines the compute operations used by the adapter.
type ComputeAPI interface {
	ListInstances(ctx context.Context, project, pageToken string) (*compute.InstanceAggregatedList, error)
	ListGlobalForwardingRules(ctx context.Context, project, pageToken string) (*compute.ForwardingRuleList, error)
	ListRegionForwardingRules(ctx context.Context, project, pageToken string) (*compute.ForwardingRuleAggregatedList, error)
	GetProject(ctx context.Context, project string) (*compute.Project, error)
}

// RunAPI defines the Cloud Run operations used by the adapter.
type RunAPI interface {
	ListServices(ctx context.Context, project, region string) (*run.GoogleCloudRunV2ListServicesResponse, error)
}

// ContainerAPI defines the GKE operations used by the adapter.
type ContainerAPI interface {
	ListClusters(ctx context.Context, project string) (*container.ListClustersResponse, error)
}

// ProjectsAPI defines the resource manager operations used for project
// discovery.
type ProjectsAPI interface {
	ListProjects(ctx context.Context, pageToken string) (*crm.ListProjectsResponse, error)
}

// Resolver resolves hostnames, satisfied by *net.Resolver.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}
