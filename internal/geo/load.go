package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	// ErrEmptySource indicates no path or URL was configured.
	ErrEmptySource = errors.New("geo: empty source")

	// ErrNotCollection indicates the document is not a FeatureCollection.
	ErrNotCollection = errors.New("geo: document is not a FeatureCollection")
)

// FetchError reports a non-success HTTP response while loading a collection.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load GeoJSON: %d", e.StatusCode)
}

// Loader reads collections from files or over HTTP.
type Loader struct {
	Client    *http.Client
	UserAgent string
}

func NewLoader() *Loader {
	return &Loader{
		Client:    &http.Client{Timeout: 60 * time.Second},
		UserAgent: "cutlapse",
	}
}

// Load reads a collection with the default loader.
func Load(ctx context.Context, source string) (*FeatureCollection, error) {
	return NewLoader().Load(ctx, source)
}

// Load reads source, which is either a local path or an http(s) URL.
// Failed fetches are not retried.
func (l *Loader) Load(ctx context.Context, source string) (*FeatureCollection, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptySource
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetch(ctx, source)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func (l *Loader) fetch(ctx context.Context, url string) (*FeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", l.UserAgent)
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	return Decode(resp.Body)
}

// Decode parses a FeatureCollection document.
func Decode(r io.Reader) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("geo: decode collection: %w", err)
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w (type %q)", ErrNotCollection, fc.Type)
	}
	if fc.Type == "" {
		fc.Type = "FeatureCollection"
	}
	return &fc, nil
}
