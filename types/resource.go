package types

// Kind tags a resource with its provider-specific shape.
type Kind string

// Resource kinds, one per provider resource shape.
const (
	KindDNSRecord       Kind = "dns_record"        // cloudflare
	KindServer          Kind = "server"            // coolify
	KindApplication     Kind = "application"       // coolify
	KindService         Kind = "service"           // coolify
	KindDatabase        Kind = "database"          // coolify
	KindDroplet         Kind = "droplet"           // digitalocean
	KindLoadBalancer    Kind = "load_balancer"     // digitalocean
	KindFloatingIP      Kind = "floating_ip"       // digitalocean
	KindDomainRecord    Kind = "domain_record"     // digitalocean
	KindComputeInstance Kind = "compute_instance"  // gcp
	KindForwardingRule  Kind = "forwarding_rule"   // gcp
	KindCloudRunService Kind = "cloud_run_service" // gcp
	KindGKECluster      Kind = "gke_cluster"       // gcp
)

// Resource is one discovered item from one provider. Built once by an
// adapter, never mutated afterwards.
type Resource struct {
	Provider string            `json:"provider"`
	Kind     Kind              `json:"kind"`
	Name     string            `json:"name"`
	DNSName  string            `json:"dns_name,omitempty"`
	IPs      []string          `json:"ips"`
	Project  string            `json:"project,omitempty"`
	Zone     string            `json:"zone,omitempty"`
	Status   string            `json:"status,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// Identifier returns the resource's DNS-style name when it has one,
// falling back to the bare resource name.
func (r Resource) Identifier() string {
	if r.DNSName != "" {
		return r.DNSName
	}
	return r.Name
}

// HasIP reports whether ip is among the resource's recorded addresses.
// Comparison is exact string equality, no normalization.
func (r Resource) HasIP(ip string) bool {
	for _, candidate := range r.IPs {
		if candidate == ip {
			return true
		}
	}
	return false
}
