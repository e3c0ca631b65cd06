package types

// Known providers.
const (
	ProviderCloudflare   = "cloudflare"
	ProviderCoolify      = "coolify"
	ProviderDigitalOcean = "digitalocean"
	ProviderGCP          = "gcp"
)

// Providers lists every known provider in merge priority order. The
// first provider in this order that reports an identifier owns the
// canonical entry's primary detail.
var Providers = []string{
	ProviderCloudflare,
	ProviderCoolify,
	ProviderDigitalOcean,
	ProviderGCP,
}

// ProviderRank returns the priority index of a provider. Unknown names
// rank last.
func ProviderRank(name string) int {
	for i, p := range Providers {
		if p == name {
			return i
		}
	}
	return len(Providers)
}
