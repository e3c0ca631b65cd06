package digitalocean

import (
	"context"

	"github.com/digitalocean/godo"
)

// DropletsAPI defines the droplet operations used by the adapter.
type DropletsAPI interface {
	List(ctx context.Context, opt *godo.ListOptions) ([]godo.Droplet, *godo.Response, error)
}

// LoadBalancersAPI defines the load balancer operations used by the adapter.
type LoadBalancersAPI interface {
	List(ctx context.Context, opt *godo.ListOptions) ([]godo.LoadBalancer, *godo.Response, error)
}

// FloatingIPsAPI defines the floating IP operations used by the adapter.
type FloatingIPsAPI interface {
	List(ctx context.Context, opt *godo.ListOptions) ([]godo.FloatingIP, *godo.Response, error)
}

// DomainsAPI defines the domain operations used by the adapter.
type DomainsAPI interface {
	List(ctx context.Context, opt *godo.ListOptions) ([]godo.Domain, *godo.Response, error)
	Records(ctx context.Context, domain string, opt *godo.ListOptions) ([]godo.DomainRecord, *godo.Response, error)
}

// AccountAPI defines the account operations used by the adapter.
type AccountAPI interface {
	Get(ctx context.Context) (*godo.Account, *godo.Response, error)
}
