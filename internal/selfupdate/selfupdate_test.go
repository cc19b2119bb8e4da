package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetSuffix(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		wantErr      bool
	}{
		{"darwin", "arm64", "Darwin_all.tar.gz", false},
		{"darwin", "amd64", "Darwin_all.tar.gz", false},
		{"linux", "amd64", "Linux_x86_64.tar.gz", false},
		{"linux", "arm64", "Linux_arm64.tar.gz", false},
		{"linux", "386", "Linux_i386.tar.gz", false},
		{"windows", "amd64", "Windows_x86_64.zip", false},
		{"linux", "mips", "", true},
		{"plan9", "amd64", "", true},
	}
	for _, tt := range tests {
		got, err := assetSuffix(tt.goos, tt.goarch)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrNoAsset, "%s/%s", tt.goos, tt.goarch)
			continue
		}
		require.NoError(t, err, "%s/%s", tt.goos, tt.goarch)
		assert.Equal(t, tt.want, got)
	}
}

func TestPlatformAsset(t *testing.T) {
	assets := []Asset{
		{Name: "checksums.txt"},
		{Name: "skilltrace_Darwin_all.tar.gz"},
		{Name: "skilltrace_Linux_x86_64.tar.gz"},
	}

	got, err := platformAsset(assets, "linux", "amd64")
	require.NoError(t, err)
	assert.Equal(t, "skilltrace_Linux_x86_64.tar.gz", got.Name)

	_, err = platformAsset(assets, "windows", "amd64")
	assert.ErrorIs(t, err, ErrNoAsset)
}

func TestParseChecksums(t *testing.T) {
	input := "abc123  skilltrace_Linux_x86_64.tar.gz\n" +
		"def456  skilltrace_Darwin_all.tar.gz\n" +
		"\n" +
		"not a checksum line at all\n"

	sums := parseChecksums(strings.NewReader(input))
	assert.Equal(t, "abc123", sums["skilltrace_Linux_x86_64.tar.gz"])
	assert.Equal(t, "def456", sums["skilltrace_Darwin_all.tar.gz"])
	assert.Len(t, sums, 2)
}

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/abhisek/skilltrace/releases/latest", r.URL.Path)
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode(Release{Tag: "v1.4.0", URL: "https://example.com/v1.4.0"})
	}))
	defer srv.Close()

	u := New(WithAPIURL(srv.URL))

	rel, newer, err := u.Check(context.Background(), "v1.2.0")
	require.NoError(t, err)
	assert.True(t, newer)
	assert.Equal(t, "v1.4.0", rel.Tag)

	// Tags without the v prefix still compare as equal versions.
	_, newer, err = u.Check(context.Background(), "1.4.0")
	require.NoError(t, err)
	assert.False(t, newer)
}

// hostAssetName returns the release asset name Apply will select on
// the machine running the tests, skipping platforms without a tar.gz
// asset.
func hostAssetName(t *testing.T) string {
	t.Helper()
	suffix, err := assetSuffix(runtime.GOOS, runtime.GOARCH)
	if err != nil || strings.HasSuffix(suffix, ".zip") {
		t.Skipf("no tar.gz release asset for %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	return "skilltrace_" + suffix
}

// releaseServer serves a release whose assets point back at itself,
// with a tar.gz carrying binContent as the skilltrace binary.
func releaseServer(t *testing.T, tag string, binContent []byte, corruptArchive bool) *httptest.Server {
	t.Helper()

	assetName := hostAssetName(t)
	archive := buildTarGz(t, "skilltrace", binContent)
	digest := sha256.Sum256(archive)
	checksums := fmt.Sprintf("%s  %s\n", hex.EncodeToString(digest[:]), assetName)
	if corruptArchive {
		archive = append(archive, 0xFF)
	}

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/repos/"):
			_ = json.NewEncoder(w).Encode(Release{
				Tag: tag,
				Assets: []Asset{
					{Name: "checksums.txt", DownloadURL: srv.URL + "/dl/checksums.txt"},
					{Name: assetName, DownloadURL: srv.URL + "/dl/archive"},
				},
			})
		case r.URL.Path == "/dl/checksums.txt":
			_, _ = w.Write([]byte(checksums))
		case r.URL.Path == "/dl/archive":
			_, _ = w.Write(archive)
		default:
			http.NotFound(w, r)
		}
	}))
	return srv
}

func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name, Mode: 0o755, Size: int64(len(content)), Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func fakeBinary(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "skilltrace")
	require.NoError(t, os.WriteFile(p, []byte("old build"), 0o755))
	return p
}

func TestApplyReplacesBinary(t *testing.T) {
	newBuild := []byte("new build contents")
	srv := releaseServer(t, "v2.0.0", newBuild, false)
	defer srv.Close()

	binPath := fakeBinary(t)
	u := New(WithAPIURL(srv.URL), withExecPath(func() (string, error) { return binPath, nil }))

	var stages []Stage
	err := u.Apply(context.Background(), "v1.0.0", "", func(stage Stage, detail string) {
		stages = append(stages, stage)
		if stage == StageDone {
			assert.Equal(t, "v2.0.0", detail)
		}
	})
	require.NoError(t, err)

	got, err := os.ReadFile(binPath)
	require.NoError(t, err)
	assert.Equal(t, newBuild, got)

	info, err := os.Stat(binPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	assert.Equal(t, []Stage{StageResolve, StageDownload, StageVerify, StageApply, StageDone}, stages)
}

func TestApplyDevBuild(t *testing.T) {
	u := New()
	err := u.Apply(context.Background(), "(devel)", "", nil)
	assert.ErrorIs(t, err, ErrDevBuild)
}

func TestApplyAlreadyLatest(t *testing.T) {
	srv := releaseServer(t, "v1.0.0", []byte("same"), false)
	defer srv.Close()

	u := New(WithAPIURL(srv.URL))
	err := u.Apply(context.Background(), "v1.0.0", "", nil)
	assert.ErrorIs(t, err, ErrAlreadyLatest)
}

func TestApplyChecksumMismatch(t *testing.T) {
	srv := releaseServer(t, "v2.0.0", []byte("tampered"), true)
	defer srv.Close()

	binPath := fakeBinary(t)
	u := New(WithAPIURL(srv.URL), withExecPath(func() (string, error) { return binPath, nil }))

	err := u.Apply(context.Background(), "v1.0.0", "", nil)
	assert.ErrorIs(t, err, ErrChecksum)

	// The running binary is untouched.
	got, readErr := os.ReadFile(binPath)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("old build"), got)
}

func TestApplyTargetTag(t *testing.T) {
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		http.NotFound(w, r)
	}))
	defer srv.Close()

	u := New(WithAPIURL(srv.URL))
	err := u.Apply(context.Background(), "v1.0.0", "v1.5.0", nil)
	require.Error(t, err)
	assert.Equal(t, "/repos/abhisek/skilltrace/releases/tags/v1.5.0", requested)
}

func TestReleaseMissingChecksums(t *testing.T) {
	assetName := hostAssetName(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Release{
			Tag:    "v2.0.0",
			Assets: []Asset{{Name: assetName, DownloadURL: "http://unused"}},
		})
	}))
	defer srv.Close()

	u := New(WithAPIURL(srv.URL), withExecPath(func() (string, error) { return fakeBinary(t), nil }))
	err := u.Apply(context.Background(), "v1.0.0", "", nil)
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestUnpackTarGz(t *testing.T) {
	archive := buildTarGz(t, "skilltrace", []byte("payload"))
	got, err := unpack(archive, "skilltrace_Linux_x86_64.tar.gz", "skilltrace")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	_, err = unpack(archive, "skilltrace_Linux_x86_64.tar.gz", "other")
	assert.Error(t, err)
}
