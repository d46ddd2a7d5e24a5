// Package snapshot loads coderank JSON snapshots from disk or over HTTP.
package snapshot

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

	"github.com/verte-zerg/rankview/internal/model"
)

// DefaultSource is the snapshot path used when none is configured.
const DefaultSource = "coderank/coderank.json"

const requestTimeout = 60 * time.Second

// SupportedVersions lists the snapshot versions this viewer understands.
var SupportedVersions = []string{"0.4.0"}

// ErrEmptySource is returned when no snapshot path or URL was given.
var ErrEmptySource = errors.New("snapshot source is empty")

// Warning is a non-fatal problem with a loaded snapshot.
type Warning struct {
	Version   string
	Supported []string
}

func (w Warning) String() string {
	return fmt.Sprintf("snapshot version %q is not supported (supported: %s); some stats may be missing or wrong",
		w.Version, strings.Join(w.Supported, ", "))
}

// Load reads a snapshot from a file path or an http(s) URL.
func Load(ctx context.Context, source string) (model.Snapshot, []Warning, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return model.Snapshot{}, nil, ErrEmptySource
	}
	if isURL(source) {
		return fetch(ctx, source)
	}
	file, err := os.Open(source)
	if err != nil {
		return model.Snapshot{}, nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return Decode(file)
}

// Decode parses a snapshot, fills missing maps and checks its version.
func Decode(r io.Reader) (model.Snapshot, []Warning, error) {
	var snap model.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return model.Snapshot{}, nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snap.Normalize()
	return snap, CheckVersion(snap), nil
}

// CheckVersion reports a warning when the snapshot version is not supported.
func CheckVersion(snap model.Snapshot) []Warning {
	for _, v := range SupportedVersions {
		if snap.Version == v {
			return nil
		}
	}
	return []Warning{{Version: snap.Version, Supported: append([]string(nil), SupportedVersions...)}}
}

func fetch(ctx context.Context, url string) (model.Snapshot, []Warning, error) {
	resp, err := httpRequest(ctx, url)
	if err != nil {
		return model.Snapshot{}, nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Snapshot{}, nil, fmt.Errorf("unexpected snapshot status: %s", resp.Status)
	}
	return Decode(resp.Body)
}

func httpRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
