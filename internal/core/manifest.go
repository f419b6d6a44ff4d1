package core

import (
	"fmt"
	"io"
	"net/http"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultDistServer is the host that publishes channel manifests.
const DefaultDistServer = "https://static.rust-lang.org"

// Getter performs one HTTP retrieval. *http.Client satisfies it.
type Getter interface {
	Get(url string) (*http.Response, error)
}

// Manifest is a parsed channel manifest for one (channel, date) pair. It maps
// package names to per-target availability.
type Manifest struct {
	Date string                     `toml:"date"`
	Pkg  map[string]ManifestPackage `toml:"pkg"`
}

// ManifestPackage describes one component package in a channel manifest.
type ManifestPackage struct {
	Version string                    `toml:"version"`
	Target  map[string]ManifestTarget `toml:"target"`
}

// ManifestTarget is the per-target availability entry of a package.
type ManifestTarget struct {
	Available bool `toml:"available"`
}

// Components returns the names of all packages available for the target.
// A "*" target entry (used by target-independent packages such as rust-src)
// counts as available everywhere.
func (m *Manifest) Components(target string) map[string]bool {
	components := make(map[string]bool, len(m.Pkg))
	for name, pkg := range m.Pkg {
		if pkg.Target[target].Available || pkg.Target["*"].Available {
			components[name] = true
		}
	}
	return components
}

// Missing returns the required component names that are not available for
// the target, in the order they were required.
func (m *Manifest) Missing(target string, required []string) []string {
	available := m.Components(target)

	var missing []string
	for _, name := range required {
		if !available[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Client fetches and parses published channel manifests. Manifests are
// fetched fresh on every call; nothing is cached and nothing is retried.
type Client struct {
	DistServer string           // manifest host; DefaultDistServer if empty
	HTTP       Getter           // http.DefaultClient if nil
	Now        func() time.Time // injectable clock; time.Now if nil
}

// ManifestURL returns the conventional manifest URL for a channel and date.
func (c *Client) ManifestURL(channel Channel, date time.Time) string {
	server := c.DistServer
	if server == "" {
		server = DefaultDistServer
	}
	return fmt.Sprintf("%s/dist/%s/channel-rust-%s.toml", server, date.Format(dateFormat), channel)
}

// Fetch retrieves and parses the manifest for the given channel and date.
// Failures are reported as a *FetchError: a missing manifest (HTTP 404) is
// FetchNotPublished, an unreachable host or unexpected status is
// FetchTransport, and a document that does not decode is FetchParse.
func (c *Client) Fetch(channel Channel, date time.Time) (*Manifest, error) {
	if date.After(dayOf(c.now())) {
		return nil, fmt.Errorf("manifest date %s is in the future", date.Format(dateFormat))
	}

	url := c.ManifestURL(channel, date)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransport, Date: date, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &FetchError{Kind: FetchNotPublished, Date: date, URL: url}
	case resp.StatusCode != http.StatusOK:
		return nil, &FetchError{
			Kind: FetchTransport,
			Date: date,
			URL:  url,
			Err:  fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransport, Date: date, URL: url, Err: err}
	}

	var manifest Manifest
	if err := toml.Unmarshal(body, &manifest); err != nil {
		return nil, &FetchError{Kind: FetchParse, Date: date, URL: url, Err: err}
	}

	return &manifest, nil
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// dayOf truncates a time to UTC day granularity.
func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
