package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/etsi/types"
)

func dnsRecord(name, ip string) types.Resource {
	return types.Resource{
		Provider: types.ProviderCloudflare,
		Kind:     types.KindDNSRecord,
		Name:     name,
		DNSName:  name,
		IPs:      []string{ip},
	}
}

func droplet(name, ip string) types.Resource {
	return types.Resource{
		Provider: types.ProviderDigitalOcean,
		Kind:     types.KindDroplet,
		Name:     name,
		IPs:      []string{ip},
	}
}

func TestMerge_SingleProvider(t *testing.T) {
	outcome := &types.Outcome{
		Provider: types.ProviderDigitalOcean,
		Resources: []types.Resource{
			droplet("web-1", "165.227.123.45"),
			droplet("api-1", "165.227.123.45"),
		},
	}

	inv := Merge("165.227.123.45", []*types.Outcome{outcome})

	require.Len(t, inv.Entries, 2)
	assert.Equal(t, "api-1", inv.Entries[0].Identifier)
	assert.Equal(t, "web-1", inv.Entries[1].Identifier)
	assert.Equal(t, types.KindDroplet, inv.Entries[1].Kind)
	assert.Equal(t, []string{types.ProviderDigitalOcean}, inv.Entries[1].Providers)
}

func TestMerge_SharedIdentifier(t *testing.T) {
	cloudflare := &types.Outcome{
		Provider:  types.ProviderCloudflare,
		Resources: []types.Resource{dnsRecord("a.example.com", "1.2.3.4")},
	}
	coolify := &types.Outcome{
		Provider: types.ProviderCoolify,
		Resources: []types.Resource{{
			Provider: types.ProviderCoolify,
			Kind:     types.KindApplication,
			Name:     "shop",
			DNSName:  "a.example.com",
			IPs:      []string{"1.2.3.4"},
		}},
	}

	inv := Merge("1.2.3.4", []*types.Outcome{coolify, cloudflare})

	require.Len(t, inv.Entries, 1)
	entry := inv.Entries[0]
	assert.Equal(t, "a.example.com", entry.Identifier)
	assert.Equal(t, types.KindDNSRecord, entry.Kind)
	assert.Equal(t, []string{types.ProviderCloudflare, types.ProviderCoolify}, entry.Providers)
	assert.Equal(t, types.KindApplication, entry.Details[types.ProviderCoolify].Kind)
	assert.Equal(t, "cloudflare+coolify", entry.Label())
}

func TestMerge_InputOrderIndependence(t *testing.T) {
	gcp := &types.Outcome{
		Provider: types.ProviderGCP,
		Resources: []types.Resource{{
			Provider: types.ProviderGCP,
			Kind:     types.KindComputeInstance,
			Name:     "shared",
			IPs:      []string{"1.2.3.4"},
		}},
	}
	cloudflare := &types.Outcome{
		Provider:  types.ProviderCloudflare,
		Resources: []types.Resource{dnsRecord("shared", "1.2.3.4")},
	}

	a := Merge("1.2.3.4", []*types.Outcome{gcp, cloudflare})
	b := Merge("1.2.3.4", []*types.Outcome{cloudflare, gcp})

	assert.Equal(t, a, b)
	require.Len(t, a.Entries, 1)
	assert.Equal(t, types.KindDNSRecord, a.Entries[0].Kind)
}

func TestMerge_Deterministic(t *testing.T) {
	outcomes := []*types.Outcome{
		{Provider: types.ProviderDigitalOcean, Resources: []types.Resource{
			droplet("web-1", "1.2.3.4"),
			droplet("api-1", "1.2.3.4"),
		}},
		{Provider: types.ProviderCloudflare, Resources: []types.Resource{
			dnsRecord("web.example.com", "1.2.3.4"),
		}},
	}

	first := Merge("1.2.3.4", outcomes)
	for range 5 {
		assert.Equal(t, first, Merge("1.2.3.4", outcomes))
	}
}

func TestMerge_AllProvidersLabel(t *testing.T) {
	var outcomes []*types.Outcome
	for _, p := range types.Providers {
		outcomes = append(outcomes, &types.Outcome{
			Provider: p,
			Resources: []types.Resource{{
				Provider: p,
				Kind:     types.KindServer,
				Name:     "everywhere",
				IPs:      []string{"1.2.3.4"},
			}},
		})
	}

	inv := Merge("1.2.3.4", outcomes)

	require.Len(t, inv.Entries, 1)
	assert.Equal(t, "all", inv.Entries[0].Label())
	assert.Equal(t, types.Providers, inv.Entries[0].Providers)
}

func TestMerge_OneDetailPerProvider(t *testing.T) {
	outcome := &types.Outcome{
		Provider: types.ProviderDigitalOcean,
		Resources: []types.Resource{
			droplet("web-1", "1.2.3.4"),
			{
				Provider: types.ProviderDigitalOcean,
				Kind:     types.KindLoadBalancer,
				Name:     "web-1",
				IPs:      []string{"1.2.3.4"},
			},
		},
	}

	inv := Merge("1.2.3.4", []*types.Outcome{outcome})

	require.Len(t, inv.Entries, 1)
	entry := inv.Entries[0]
	assert.Equal(t, []string{types.ProviderDigitalOcean}, entry.Providers)
	assert.Equal(t, types.KindDroplet, entry.Details[types.ProviderDigitalOcean].Kind)
}

func TestMerge_DropletScenario(t *testing.T) {
	outcome := &types.Outcome{
		Provider:  types.ProviderDigitalOcean,
		Resources: []types.Resource{droplet("web-1", "165.227.123.45")},
	}

	inv := Merge("165.227.123.45", []*types.Outcome{outcome})

	require.Len(t, inv.Entries, 1)
	entry := inv.Entries[0]
	assert.Equal(t, "web-1", entry.Identifier)
	assert.Equal(t, types.KindDroplet, entry.Kind)
	assert.Equal(t, "digitalocean", entry.Label())
	assert.True(t, entry.Has(types.ProviderDigitalOcean))
	assert.False(t, entry.Has(types.ProviderGCP))
}

func TestInventory_Providers(t *testing.T) {
	inv := Merge("1.2.3.4", []*types.Outcome{
		{Provider: types.ProviderGCP, Resources: []types.Resource{{
			Provider: types.ProviderGCP, Kind: types.KindGKECluster, Name: "c1", IPs: []string{"1.2.3.4"},
		}}},
		{Provider: types.ProviderCloudflare, Resources: []types.Resource{
			dnsRecord("a.example.com", "1.2.3.4"),
		}},
	})

	assert.Equal(t, []string{types.ProviderCloudflare, types.ProviderGCP}, inv.Providers())
}

func TestInventory_Empty(t *testing.T) {
	inv := Merge("1.2.3.4", nil)
	assert.Empty(t, inv.Entries)
	assert.Empty(t, inv.Providers())
	assert.Equal(t, "1.2.3.4", inv.IP)
}
