package selfupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/mod/semver"
)

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
	Size        int64  `json:"size"`
}

// Release is a published GitHub release with its assets.
type Release struct {
	Tag    string  `json:"tag_name"`
	URL    string  `json:"html_url"`
	Assets []Asset `json:"assets"`
}

// Release fetches one release. An empty tag selects the latest.
func (u *Updater) Release(ctx context.Context, tag string) (*Release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(u.apiURL, "/"), u.repo)
	if tag != "" {
		endpoint = fmt.Sprintf("%s/repos/%s/releases/tags/%s", strings.TrimRight(u.apiURL, "/"), u.repo, tag)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching release from %s", resp.StatusCode, endpoint)
	}

	var rel Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if rel.Tag == "" {
		return nil, fmt.Errorf("release from %s has no tag", endpoint)
	}
	return &rel, nil
}

// Check fetches the latest release and reports whether it is newer
// than the running version. Tags compare as semver; a missing v
// prefix is tolerated on either side.
func (u *Updater) Check(ctx context.Context, current string) (*Release, bool, error) {
	rel, err := u.Release(ctx, "")
	if err != nil {
		return nil, false, err
	}
	return rel, semver.Compare(canonicalTag(rel.Tag), canonicalTag(current)) > 0, nil
}

func canonicalTag(tag string) string {
	if strings.HasPrefix(tag, "v") {
		return tag
	}
	return "v" + tag
}
