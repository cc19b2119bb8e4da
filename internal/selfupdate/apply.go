package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// Apply updates the running binary to the target tag, or to the
// latest release when target is empty. The report callback may be
// nil.
func (u *Updater) Apply(ctx context.Context, current, target string, report ProgressFunc) error {
	if current == "(devel)" {
		return ErrDevBuild
	}
	if report == nil {
		report = func(Stage, string) {}
	}

	report(StageResolve, target)
	var rel *Release
	var err error
	if target == "" {
		var newer bool
		rel, newer, err = u.Check(ctx, current)
		if err != nil {
			return fmt.Errorf("resolve latest release: %w", err)
		}
		if !newer {
			return ErrAlreadyLatest
		}
	} else {
		rel, err = u.Release(ctx, target)
		if err != nil {
			return fmt.Errorf("resolve release %s: %w", target, err)
		}
	}

	asset, err := platformAsset(rel.Assets, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}
	sums, err := u.releaseChecksums(ctx, rel)
	if err != nil {
		return err
	}
	want, ok := sums[asset.Name]
	if !ok {
		return fmt.Errorf("%w: %s not listed in checksums.txt", ErrChecksum, asset.Name)
	}

	report(StageDownload, asset.Name)
	archive, digest, err := u.fetch(ctx, asset.DownloadURL)
	if err != nil {
		return fmt.Errorf("download %s: %w", asset.Name, err)
	}

	report(StageVerify, asset.Name)
	if digest != want {
		return fmt.Errorf("%w: %s: want %s, got %s", ErrChecksum, asset.Name, want, digest)
	}

	bin, err := unpack(archive, asset.Name, path.Base(u.repo))
	if err != nil {
		return fmt.Errorf("unpack %s: %w", asset.Name, err)
	}

	dest, err := u.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	report(StageApply, dest)
	if err := swapBinary(bin, dest); err != nil {
		return fmt.Errorf("replace %s: %w", dest, err)
	}

	report(StageDone, rel.Tag)
	return nil
}

// platformAsset picks the release asset for a platform out of the
// asset list, matching the goreleaser naming scheme.
func platformAsset(assets []Asset, goos, goarch string) (Asset, error) {
	suffix, err := assetSuffix(goos, goarch)
	if err != nil {
		return Asset{}, err
	}
	for _, a := range assets {
		if strings.HasSuffix(a.Name, suffix) {
			return a, nil
		}
	}
	return Asset{}, fmt.Errorf("%w: no asset ends in %s", ErrNoAsset, suffix)
}

func assetSuffix(goos, goarch string) (string, error) {
	var arch string
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "arm64"
	case "386":
		arch = "i386"
	default:
		return "", fmt.Errorf("%w: unsupported architecture %s", ErrNoAsset, goarch)
	}

	switch goos {
	case "darwin":
		return "Darwin_all.tar.gz", nil
	case "linux":
		return "Linux_" + arch + ".tar.gz", nil
	case "windows":
		return "Windows_" + arch + ".zip", nil
	default:
		return "", fmt.Errorf("%w: unsupported operating system %s", ErrNoAsset, goos)
	}
}

// releaseChecksums downloads and parses the release's checksums.txt
// asset.
func (u *Updater) releaseChecksums(ctx context.Context, rel *Release) (map[string]string, error) {
	for _, a := range rel.Assets {
		if a.Name != "checksums.txt" {
			continue
		}
		data, _, err := u.fetch(ctx, a.DownloadURL)
		if err != nil {
			return nil, fmt.Errorf("download checksums.txt: %w", err)
		}
		return parseChecksums(bytes.NewReader(data)), nil
	}
	return nil, fmt.Errorf("%w: release %s has no checksums.txt", ErrChecksum, rel.Tag)
}

// parseChecksums reads "hexdigest  filename" lines, one per asset.
func parseChecksums(r io.Reader) map[string]string {
	sums := make(map[string]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 {
			sums[fields[1]] = fields[0]
		}
	}
	return sums
}

// fetch downloads a URL into memory, hashing the stream as it reads.
func (u *Updater) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	h := sha256.New()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.TeeReader(resp.Body, h)); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), hex.EncodeToString(h.Sum(nil)), nil
}

// unpack extracts the named binary from a tar.gz or zip archive.
func unpack(archive []byte, assetName, binName string) ([]byte, error) {
	if strings.HasSuffix(assetName, ".zip") {
		return unpackZip(archive, binName+".exe")
	}
	return unpackTarGz(archive, binName)
}

func unpackTarGz(archive []byte, binName string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("%s not found in archive", binName)
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == binName {
			return io.ReadAll(tr)
		}
	}
}

func unpackZip(archive []byte, binName string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if filepath.Base(f.Name) != binName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", binName)
}

// swapBinary writes the new binary beside the target and renames it
// into place, so the replacement is atomic on the same filesystem.
func swapBinary(bin []byte, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(bin); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Chmod(info.Mode()); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return err
	}
	return nil
}
