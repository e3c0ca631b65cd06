package coolify

import "context"

// API defines the Coolify operations used by the adapter.
type API interface {
	Version(ctx context.Context) (string, error)
	Servers(ctx context.Context) ([]Server, error)
	Projects(ctx context.Context) ([]Project, error)
	Project(ctx context.Context, uuid string) (*ProjectDetails, error)
	Environment(ctx context.Context, projectUUID, envName string) (*EnvironmentDetails, error)
}
