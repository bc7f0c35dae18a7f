package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// imageServer serves the provided body for any request.
func imageServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))

	t.Cleanup(server.Close)

	return server
}

// TestDownload_HappyPath stages the image, names it from the version and
// marks it executable.
func TestDownload_HappyPath(t *testing.T) {
	t.Parallel()

	server := imageServer(t, []byte("pretend-appimage-bytes"))
	dir := t.TempDir()

	path, err := Download(context.Background(), server.Client(), server.URL, dir, "1.2.3")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "cursor-1.2.3.AppImage"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())
	require.NotZero(t, info.Mode().Perm()&0o111)
}

// TestDownload_RejectsBadURLShape asserts the defense-in-depth URL re-check.
func TestDownload_RejectsBadURLShape(t *testing.T) {
	t.Parallel()

	_, err := Download(context.Background(), nil, "ftp://example.com/x", t.TempDir(), "1.0.0")

	var downloadErr *DownloadError

	require.ErrorAs(t, err, &downloadErr)
	require.Equal(t, ReasonBadRequest, downloadErr.Reason)
}

// TestDownload_ClassifiesHTTPStatus maps non-OK statuses to the status reason.
func TestDownload_ClassifiesHTTPStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	t.Cleanup(server.Close)

	_, err := Download(context.Background(), server.Client(), server.URL, t.TempDir(), "1.0.0")

	var downloadErr *DownloadError

	require.ErrorAs(t, err, &downloadErr)
	require.Equal(t, ReasonHTTPStatus, downloadErr.Reason)
}

// TestDownload_ClassifiesConnectionFailure maps refused connections to the
// connection reason.
func TestDownload_ClassifiesConnectionFailure(t *testing.T) {
	t.Parallel()

	server := imageServer(t, nil)
	url := server.URL
	server.Close()

	_, err := Download(context.Background(), nil, url, t.TempDir(), "1.0.0")

	var downloadErr *DownloadError

	require.ErrorAs(t, err, &downloadErr)
	require.Equal(t, ReasonConnection, downloadErr.Reason)
}

// TestDownload_ClassifiesTimeout maps an exceeded budget to the timeout reason.
func TestDownload_ClassifiesTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))

	t.Cleanup(server.Close)

	client := &http.Client{Timeout: 50 * time.Millisecond}

	_, err := Download(context.Background(), client, server.URL, t.TempDir(), "1.0.0")

	var downloadErr *DownloadError

	require.ErrorAs(t, err, &downloadErr)
	require.Equal(t, ReasonTimeout, downloadErr.Reason)
}

// TestDownload_NeverReportsSuccessForEmptyFile guards the post-condition:
// a zero-byte body is a failure even though the network call succeeded.
func TestDownload_NeverReportsSuccessForEmptyFile(t *testing.T) {
	t.Parallel()

	server := imageServer(t, nil)

	_, err := Download(context.Background(), server.Client(), server.URL, t.TempDir(), "1.0.0")

	var downloadErr *DownloadError

	require.ErrorAs(t, err, &downloadErr)
	require.Equal(t, ReasonBadFile, downloadErr.Reason)
	require.ErrorIs(t, err, errEmptyFile)
}

// TestCheckDownloadedFile covers the individual post-condition failures.
func TestCheckDownloadedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Missing file.
	require.Error(t, checkDownloadedFile(filepath.Join(dir, "absent")))

	// Empty file.
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o755))
	require.ErrorIs(t, checkDownloadedFile(empty), errEmptyFile)

	// Not executable.
	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, []byte("data"), 0o644))
	require.ErrorIs(t, checkDownloadedFile(plain), errNotExecutable)

	// Good file.
	good := filepath.Join(dir, "good")
	require.NoError(t, os.WriteFile(good, []byte("data"), 0o755))
	require.NoError(t, checkDownloadedFile(good))
}

// TestDownloadErrorUnwrap keeps the underlying cause reachable.
func TestDownloadErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &DownloadError{Reason: ReasonConnection, URL: "https://example.com", Err: cause}

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "connection failed")
}
