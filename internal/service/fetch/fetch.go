package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/cursor-deb/internal/logger"
	"github.com/oshokin/cursor-deb/internal/service/release"
)

const (
	// DefaultTimeout bounds the whole image download. AppImages are large,
	// so this is generous compared to the metadata query.
	DefaultTimeout = 10 * time.Minute

	// imageFileMode marks the downloaded image executable, which its
	// self-extraction facility requires.
	imageFileMode os.FileMode = 0o755

	// imageNameTemplate derives the staging filename from the version label.
	imageNameTemplate = "cursor-%s.AppImage"
)

// Reason is the fixed classification of a download failure.
type Reason string

// Download failure reasons.
const (
	// ReasonBadRequest means the URL failed the shape check or could not form a request.
	ReasonBadRequest Reason = "malformed request"
	// ReasonHostResolution means DNS lookup of the image host failed.
	ReasonHostResolution Reason = "host resolution failed"
	// ReasonConnection means the TCP/TLS connection could not be established or broke.
	ReasonConnection Reason = "connection failed"
	// ReasonTimeout means the download exceeded its time budget.
	ReasonTimeout Reason = "timed out"
	// ReasonHTTPStatus means the server answered with a non-OK status.
	ReasonHTTPStatus Reason = "http error status"
	// ReasonBadFile means the downloaded file failed a post-condition check.
	ReasonBadFile Reason = "unusable downloaded file"
)

// DownloadError is a classified download failure.
type DownloadError struct {
	// Reason is the entry from the fixed code-to-reason table.
	Reason Reason
	// URL is the location that was being fetched.
	URL string
	// Err is the underlying cause, if any.
	Err error
}

// Error renders the classified failure.
func (e *DownloadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("download %s: %s", e.URL, e.Reason)
	}

	return fmt.Sprintf("download %s: %s: %s", e.URL, e.Reason, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *DownloadError) Unwrap() error {
	return e.Err
}

var (
	// errEmptyFile is reported when the destination exists but has no content.
	errEmptyFile = errors.New("file is empty")
	// errNotExecutable is reported when the destination lost its executable bit.
	errNotExecutable = errors.New("file is not executable")
)

// Download streams the application image to the staging directory and returns
// the destination path. The URL shape is re-validated here in case a tampered
// or mis-resolved value reached this stage. There is no partial-file
// resumption: a failed download is fatal and must be re-run from scratch.
func Download(ctx context.Context, client *http.Client, rawURL, destDir, version string) (string, error) {
	if !release.ValidDownloadURL(rawURL) {
		return "", &DownloadError{Reason: ReasonBadRequest, URL: rawURL}
	}

	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	dest := filepath.Join(destDir, fmt.Sprintf(imageNameTemplate, version))

	logger.InfoKV(ctx, "Downloading application image", "url", rawURL, "dest", dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", &DownloadError{Reason: ReasonBadRequest, URL: rawURL, Err: err}
	}

	response, err := client.Do(req)
	if err != nil {
		return "", &DownloadError{Reason: classify(err), URL: rawURL, Err: err}
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return "", &DownloadError{
			Reason: ReasonHTTPStatus,
			URL:    rawURL,
			Err:    fmt.Errorf("server returned %s", response.Status),
		}
	}

	// go-update replaces an existing target, so seed an empty one first.
	if _, statErr := os.Stat(dest); statErr != nil && os.IsNotExist(statErr) {
		seed, createErr := os.Create(filepath.Clean(dest))
		if createErr != nil {
			return "", &DownloadError{Reason: ReasonBadFile, URL: rawURL, Err: createErr}
		}

		_ = seed.Close()
	}

	// go-update streams to a temporary file and renames into place, so a
	// broken transfer never leaves a half-written image at dest.
	applyOptions := goupdate.Options{
		TargetPath: dest,
		TargetMode: imageFileMode,
	}

	if err = goupdate.Apply(response.Body, applyOptions); err != nil {
		return "", &DownloadError{Reason: classify(err), URL: rawURL, Err: err}
	}

	if _, statErr := os.Stat(dest + ".old"); statErr == nil {
		_ = os.Remove(dest + ".old")
	}

	if err = checkDownloadedFile(dest); err != nil {
		return "", &DownloadError{Reason: ReasonBadFile, URL: rawURL, Err: err}
	}

	logger.InfoKV(ctx, "Image downloaded", "path", dest)

	return dest, nil
}

// classify maps an underlying transport error onto the fixed reason table.
func classify(err error) Reason {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ReasonHostResolution
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return ReasonTimeout
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ReasonTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ReasonConnection
	}

	return ReasonConnection
}

// checkDownloadedFile asserts the success post-conditions: the destination
// exists, is non-empty and is marked executable. A zero-byte file is never
// reported as success even when the network call itself succeeded.
func checkDownloadedFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Size() == 0 {
		return errEmptyFile
	}

	if info.Mode().Perm()&0o111 == 0 {
		return errNotExecutable
	}

	return nil
}
