package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oshokin/cursor-deb/internal/logger"
)

const (
	// DefaultEndpoint is where Cursor publishes its latest Linux build info.
	DefaultEndpoint = "https://www.cursor.com/api/download?platform=linux-x64&releaseTrack=stable"

	// DefaultTimeout bounds the whole metadata query, connect included.
	DefaultTimeout = 15 * time.Second

	// maxMetadataSize caps the response body read; the endpoint returns a
	// tiny JSON object and anything bigger is suspect.
	maxMetadataSize = 1 << 20
)

var (
	// ErrUnreachable is returned when the metadata endpoint cannot be queried
	// within the configured timeout.
	ErrUnreachable = errors.New("metadata endpoint unreachable")
	// ErrBadMetadata is returned when the response lacks a usable download location.
	ErrBadMetadata = errors.New("malformed release metadata")
)

// Info describes a resolved release: where to download the application image
// and which version label to stamp on the produced package.
// Immutable once resolved.
type Info struct {
	// DownloadURL is the location of the application image.
	DownloadURL string `json:"downloadUrl"`
	// Version is the release version label.
	Version string `json:"version"`
}

// Resolver queries the metadata endpoint for the latest release.
type Resolver struct {
	// endpoint is the metadata URL to query.
	endpoint string
	// client issues the HTTP request. Its timeout bounds the query.
	client *http.Client
}

// NewResolver creates a resolver for the provided endpoint. Empty endpoint
// falls back to DefaultEndpoint; nil client gets a bounded default.
func NewResolver(endpoint string, client *http.Client) *Resolver {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	return &Resolver{
		endpoint: endpoint,
		client:   client,
	}
}

// ValidDownloadURL reports whether the value has the expected URL shape.
// The fetcher re-checks this before issuing the request.
func ValidDownloadURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

// Resolve queries the endpoint and returns the release info. A non-empty
// explicitVersion overrides the version label only: the resolved download
// location is still used, so the label and the fetched binary may not
// correspond unless the endpoint supports version-specific lookups.
func (r *Resolver) Resolve(ctx context.Context, explicitVersion string) (*Info, error) {
	logger.InfoKV(ctx, "Resolving latest release", "endpoint", r.endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}

	response, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrUnreachable, r.endpoint, response.Status)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, maxMetadataSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}

	var info Info
	if err = json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadMetadata, err)
	}

	if !ValidDownloadURL(info.DownloadURL) {
		return nil, fmt.Errorf("%w: download URL %q", ErrBadMetadata, info.DownloadURL)
	}

	if explicitVersion != "" {
		logger.InfoKV(ctx, "Overriding version label",
			"resolved", info.Version, "override", explicitVersion)

		info.Version = explicitVersion
	}

	logger.InfoKV(ctx, "Release resolved", "version", info.Version, "url", info.DownloadURL)

	return &info, nil
}
