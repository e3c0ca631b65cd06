package coolify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/providers"
	"github.com/yairfalse/etsi/types"
)

type mockCoolifyAPI struct {
	VersionFunc     func(ctx context.Context) (string, error)
	ServersFunc     func(ctx context.Context) ([]Server, error)
	ProjectsFunc    func(ctx context.Context) ([]Project, error)
	ProjectFunc     func(ctx context.Context, uuid string) (*ProjectDetails, error)
	EnvironmentFunc func(ctx context.Context, projectUUID, envName string) (*EnvironmentDetails, error)
}

func (m *mockCoolifyAPI) Version(ctx context.Context) (string, error) {
	return m.VersionFunc(ctx)
}

func (m *mockCoolifyAPI) Servers(ctx context.Context) ([]Server, error) {
	return m.ServersFunc(ctx)
}

func (m *mockCoolifyAPI) Projects(ctx context.Context) ([]Project, error) {
	return m.ProjectsFunc(ctx)
}

func (m *mockCoolifyAPI) Project(ctx context.Context, uuid string) (*ProjectDetails, error) {
	return m.ProjectFunc(ctx, uuid)
}

func (m *mockCoolifyAPI) Environment(ctx context.Context, projectUUID, envName string) (*EnvironmentDetails, error) {
	return m.EnvironmentFunc(ctx, projectUUID, envName)
}

func noProjects() *mockCoolifyAPI {
	return &mockCoolifyAPI{
		ServersFunc:  func(_ context.Context) ([]Server, error) { return nil, nil },
		ProjectsFunc: func(_ context.Context) ([]Project, error) { return nil, nil },
	}
}

func TestNew_NotConfigured(t *testing.T) {
	_, err := New(context.Background(), &config.Config{}, zerolog.Nop())
	require.ErrorIs(t, err, providers.ErrNotConfigured)
}

func TestTestConnection(t *testing.T) {
	mock := noProjects()
	mock.VersionFunc = func(_ context.Context) (string, error) { return "4.0.0-beta.323", nil }

	a := &Adapter{api: mock, logger: zerolog.Nop()}
	require.NoError(t, a.TestConnection(context.Background()))

	mock.VersionFunc = func(_ context.Context) (string, error) { return "", errors.New("401") }
	err := a.TestConnection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version probe")
}

func TestDiscoverByIP_ServerAndWorkloads(t *testing.T) {
	web := Server{UUID: "s1", Name: "web-1", IP: "203.0.113.9"}
	other := Server{UUID: "s2", Name: "web-2", IP: "203.0.113.10"}

	mock := &mockCoolifyAPI{
		ServersFunc: func(_ context.Context) ([]Server, error) {
			return []Server{web, other}, nil
		},
		ProjectsFunc: func(_ context.Context) ([]Project, error) {
			return []Project{{UUID: "p1", Name: "acme"}}, nil
		},
		ProjectFunc: func(_ context.Context, uuid string) (*ProjectDetails, error) {
			return &ProjectDetails{
				UUID:         uuid,
				Name:         "acme",
				Environments: []Environment{{ID: 1, Name: "production"}},
			}, nil
		},
		EnvironmentFunc: func(_ context.Context, _, _ string) (*EnvironmentDetails, error) {
			return &EnvironmentDetails{
				Name: "production",
				Applications: []Application{
					{UUID: "a1", Name: "shop", FQDN: "https://shop.example.com,https://www.shop.example.com", Status: "running", Destination: &Destination{Server: &web}},
					{UUID: "a2", Name: "blog", FQDN: "https://blog.example.com", Status: "running", Destination: &Destination{Server: &other}},
				},
				Services: []Service{
					{UUID: "v1", Name: "plausible", Status: "running", Destination: &Destination{Server: &web}},
				},
				Databases: []Database{
					{UUID: "d1", Name: "shop-db", Status: "running", Destination: &Destination{Server: &web}},
					{UUID: "d2", Name: "blog-db", Status: "running", Destination: &Destination{Server: &other}},
				},
			}, nil
		},
	}

	a := &Adapter{api: mock, logger: zerolog.Nop()}
	outcome := a.DiscoverByIP(context.Background(), "203.0.113.9")

	// server + app + service + database on the matched host
	require.Len(t, outcome.Resources, 4)
	require.Empty(t, outcome.Warnings)

	assert.Equal(t, types.KindServer, outcome.Resources[0].Kind)
	assert.Equal(t, "web-1", outcome.Resources[0].Name)

	app := outcome.Resources[1]
	assert.Equal(t, types.KindApplication, app.Kind)
	assert.Equal(t, "shop", app.Name)
	assert.Equal(t, "shop.example.com", app.DNSName)
	assert.Equal(t, "acme", app.Project)
	assert.Equal(t, "production", app.Meta["environment"])
	assert.Equal(t, []string{"203.0.113.9"}, app.IPs)

	assert.Equal(t, types.KindService, outcome.Resources[2].Kind)
	db := outcome.Resources[3]
	assert.Equal(t, types.KindDatabase, db.Kind)
	assert.Equal(t, "shop-db", db.Name)
	assert.Equal(t, "shop-db", db.Identifier())
}

func TestDiscoverByIP_EmbeddedDestinationIP(t *testing.T) {
	// The destination server never appears in the server list, but its
	// embedded IP still matches the query.
	hidden := Server{UUID: "s9", Name: "edge", IP: "203.0.113.9"}

	mock := &mockCoolifyAPI{
		ServersFunc: func(_ context.Context) ([]Server, error) { return nil, nil },
		ProjectsFunc: func(_ context.Context) ([]Project, error) {
			return []Project{{UUID: "p1", Name: "acme"}}, nil
		},
		ProjectFunc: func(_ context.Context, uuid string) (*ProjectDetails, error) {
			return &ProjectDetails{Name: "acme", Environments: []Environment{{Name: "production"}}}, nil
		},
		EnvironmentFunc: func(_ context.Context, _, _ string) (*EnvironmentDetails, error) {
			return &EnvironmentDetails{
				Applications: []Application{
					{UUID: "a1", Name: "shop", Status: "running", Destination: &Destination{Server: &hidden}},
				},
			}, nil
		},
	}

	a := &Adapter{api: mock, logger: zerolog.Nop()}
	outcome := a.DiscoverByIP(context.Background(), "203.0.113.9")

	require.Len(t, outcome.Resources, 1)
	assert.Equal(t, "shop", outcome.Resources[0].Name)
	// No FQDN on the app, so the identifier falls back to the name.
	assert.Equal(t, "shop", outcome.Resources[0].Identifier())
}

func TestDiscoverByIP_EnvironmentFailureSkipped(t *testing.T) {
	web := Server{UUID: "s1", Name: "web-1", IP: "203.0.113.9"}

	mock := &mockCoolifyAPI{
		ServersFunc: func(_ context.Context) ([]Server, error) { return []Server{web}, nil },
		ProjectsFunc: func(_ context.Context) ([]Project, error) {
			return []Project{{UUID: "p1", Name: "acme"}}, nil
		},
		ProjectFunc: func(_ context.Context, uuid string) (*ProjectDetails, error) {
			return &ProjectDetails{
				Name:         "acme",
				Environments: []Environment{{Name: "broken"}, {Name: "production"}},
			}, nil
		},
		EnvironmentFunc: func(_ context.Context, _, envName string) (*EnvironmentDetails, error) {
			if envName == "broken" {
				return nil, errors.New("500")
			}
			return &EnvironmentDetails{
				Applications: []Application{
					{UUID: "a1", Name: "shop", Status: "running", Destination: &Destination{Server: &web}},
				},
			}, nil
		},
	}

	a := &Adapter{api: mock, logger: zerolog.Nop()}
	outcome := a.DiscoverByIP(context.Background(), "203.0.113.9")

	require.Len(t, outcome.Resources, 2) // server + app from the healthy env
	require.Len(t, outcome.Warnings, 1)
	assert.Equal(t, "project acme environment broken", outcome.Warnings[0].Scope)
}

func TestDiscoverByIP_ProjectFailureSkipped(t *testing.T) {
	mock := &mockCoolifyAPI{
		ServersFunc: func(_ context.Context) ([]Server, error) { return nil, nil },
		ProjectsFunc: func(_ context.Context) ([]Project, error) {
			return []Project{{UUID: "p1", Name: "broken"}, {UUID: "p2", Name: "acme"}}, nil
		},
		ProjectFunc: func(_ context.Context, uuid string) (*ProjectDetails, error) {
			if uuid == "p1" {
				return nil, errors.New("403")
			}
			return &ProjectDetails{Name: "acme"}, nil
		},
	}

	a := &Adapter{api: mock, logger: zerolog.Nop()}
	outcome := a.DiscoverByIP(context.Background(), "203.0.113.9")

	assert.Empty(t, outcome.Resources)
	require.Len(t, outcome.Warnings, 1)
	assert.Equal(t, "project broken", outcome.Warnings[0].Scope)
}

func TestDiscoverByIP_ServerListFailureStillWalksProjects(t *testing.T) {
	edge := Server{UUID: "s1", Name: "edge", IP: "203.0.113.9"}

	mock := &mockCoolifyAPI{
		ServersFunc: func(_ context.Context) ([]Server, error) { return nil, errors.New("timeout") },
		ProjectsFunc: func(_ context.Context) ([]Project, error) {
			return []Project{{UUID: "p1", Name: "acme"}}, nil
		},
		ProjectFunc: func(_ context.Context, uuid string) (*ProjectDetails, error) {
			return &ProjectDetails{Name: "acme", Environments: []Environment{{Name: "production"}}}, nil
		},
		EnvironmentFunc: func(_ context.Context, _, _ string) (*EnvironmentDetails, error) {
			return &EnvironmentDetails{
				Applications: []Application{
					{UUID: "a1", Name: "shop", Status: "running", Destination: &Destination{Server: &edge}},
				},
			}, nil
		},
	}

	a := &Adapter{api: mock, logger: zerolog.Nop()}
	outcome := a.DiscoverByIP(context.Background(), "203.0.113.9")

	require.Len(t, outcome.Resources, 1)
	require.Len(t, outcome.Warnings, 1)
	assert.Equal(t, "servers", outcome.Warnings[0].Scope)
}

func TestFirstFQDN(t *testing.T) {
	tests := []struct {
		name string
		fqdn string
		want string
	}{
		{name: "empty", fqdn: "", want: ""},
		{name: "bare host", fqdn: "shop.example.com", want: "shop.example.com"},
		{name: "https scheme", fqdn: "https://shop.example.com", want: "shop.example.com"},
		{name: "http scheme", fqdn: "http://shop.example.com", want: "shop.example.com"},
		{name: "comma list", fqdn: "https://shop.example.com,https://www.shop.example.com", want: "shop.example.com"},
		{name: "path stripped", fqdn: "https://shop.example.com/admin", want: "shop.example.com"},
		{name: "spaces around entries", fqdn: " https://shop.example.com , https://b.example.com", want: "shop.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstFQDN(tt.fqdn))
		})
	}
}
