package coolify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const callTimeout = 30 * time.Second

// Client is a minimal typed client for the Coolify v1 REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the instance at baseURL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: callTimeout},
	}
}

// Server is a host registered with Coolify.
type Server struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	IP   string `json:"ip"`
}

// Project groups environments.
type Project struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Environment is one deploy target inside a project.
type Environment struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProjectDetails carries a project's environment list.
type ProjectDetails struct {
	UUID         string        `json:"uuid"`
	Name         string        `json:"name"`
	Environments []Environment `json:"environments"`
}

// Destination points a deployed resource at its server.
type Destination struct {
	Server *Server `json:"server"`
}

// Application is a deployed app.
type Application struct {
	UUID        string       `json:"uuid"`
	Name        string       `json:"name"`
	FQDN        string       `json:"fqdn"`
	Status      string       `json:"status"`
	Destination *Destination `json:"destination"`
}

// Service is a deployed one-click service.
type Service struct {
	UUID        string       `json:"uuid"`
	Name        string       `json:"name"`
	FQDN        string       `json:"fqdn"`
	Status      string       `json:"status"`
	Destination *Destination `json:"destination"`
}

// Database is a managed database instance.
type Database struct {
	UUID        string       `json:"uuid"`
	Name        string       `json:"name"`
	Status      string       `json:"status"`
	Destination *Destination `json:"destination"`
}

// EnvironmentDetails is an environment's full resource tree.
type EnvironmentDetails struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	Applications []Application `json:"applications"`
	Services     []Service     `json:"services"`
	Databases    []Database    `json:"databases"`
}

// Version probes the instance. Coolify answers with its version string,
// sometimes JSON-quoted, sometimes plain.
func (c *Client) Version(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, "/version")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", fmt.Errorf("read version response: %w", err)
	}
	return strings.Trim(strings.TrimSpace(string(body)), `"`), nil
}

// Servers lists every registered server.
func (c *Client) Servers(ctx context.Context) ([]Server, error) {
	var servers []Server
	if err := c.get(ctx, "/servers", &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

// Projects lists every project.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Project fetches one project with its environments.
func (c *Client) Project(ctx context.Context, uuid string) (*ProjectDetails, error) {
	var details ProjectDetails
	if err := c.get(ctx, "/projects/"+url.PathEscape(uuid), &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// Environment fetches one environment's resource tree.
func (c *Client) Environment(ctx context.Context, projectUUID, envName string) (*EnvironmentDetails, error) {
	var details EnvironmentDetails
	path := "/projects/" + url.PathEscape(projectUUID) + "/" + url.PathEscape(envName)
	if err := c.get(ctx, path, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return resp, nil
}
