package types

import (
	"errors"
	"testing"
)

func TestResource_Identifier(t *testing.T) {
	tests := []struct {
		name     string
		resource Resource
		want     string
	}{
		{
			name:     "dns name preferred",
			resource: Resource{Name: "web-1", DNSName: "web.example.com"},
			want:     "web.example.com",
		},
		{
			name:     "bare name fallback",
			resource: Resource{Name: "web-1"},
			want:     "web-1",
		},
		{
			name:     "empty resource",
			resource: Resource{},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resource.Identifier(); got != tt.want {
				t.Errorf("Identifier() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResource_HasIP(t *testing.T) {
	r := Resource{IPs: []string{"192.168.1.1", "2001:db8::1"}}

	if !r.HasIP("192.168.1.1") {
		t.Error("expected exact match for 192.168.1.1")
	}
	// Exact string equality only: no prefix or leading-zero coercion.
	if r.HasIP("192.168.1.10") {
		t.Error("192.168.1.10 must not match 192.168.1.1")
	}
	if r.HasIP("192.168.1.01") {
		t.Error("192.168.1.01 must not match 192.168.1.1")
	}
	// No IPv6 normalization either.
	if r.HasIP("2001:0db8::1") {
		t.Error("expanded IPv6 form must not match compressed form")
	}
}

func TestProviderRank(t *testing.T) {
	if ProviderRank(ProviderCloudflare) != 0 {
		t.Error("cloudflare should rank first")
	}
	if ProviderRank(ProviderCoolify) >= ProviderRank(ProviderDigitalOcean) {
		t.Error("coolify should rank before digitalocean")
	}
	if ProviderRank(ProviderGCP) != len(Providers)-1 {
		t.Error("gcp should rank last among known providers")
	}
	if ProviderRank("unknown") != len(Providers) {
		t.Error("unknown providers should rank after all known ones")
	}
}

func TestOutcome_Warn(t *testing.T) {
	o := &Outcome{Provider: ProviderCloudflare}
	if o.Partial() {
		t.Error("fresh outcome should not be partial")
	}

	o.Warn("zone example.com", errors.New("list records: boom"))

	if !o.Partial() {
		t.Error("outcome with warnings should be partial")
	}
	if len(o.Warnings) != 1 {
		t.Fatalf("Warnings len = %d, want 1", len(o.Warnings))
	}
	if o.Warnings[0].Scope != "zone example.com" {
		t.Errorf("Scope = %q", o.Warnings[0].Scope)
	}
	if o.Warnings[0].Err != "list records: boom" {
		t.Errorf("Err = %q", o.Warnings[0].Err)
	}
}
