package cloudflare

import (
	"context"

	cf "github.com/cloudflare/cloudflare-go"
)

// API defines the Cloudflare operations used by the adapter.
type API interface {
	VerifyAPIToken(ctx context.Context) (cf.APITokenVerifyBody, error)
	ListZonesContext(ctx context.Context, opts ...cf.ReqOption) (cf.ZonesResponse, error)
	ListDNSRecords(ctx context.Context, rc *cf.ResourceContainer, params cf.ListDNSRecordsParams) ([]cf.DNSRecord, *cf.ResultInfo, error)
}
