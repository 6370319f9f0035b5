package corpus

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func testFetcher() *Fetcher {
	return NewFetcher(FetchConfig{
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
	})
}

func TestFetchDownloadsAndChecksums(t *testing.T) {
	payload := []byte("%PDF-1.4 fake statute")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	localPath := filepath.Join(t.TempDir(), "pdfs", "statute.pdf")
	checksum, skipped, err := testFetcher().Fetch(context.Background(), server.URL, localPath)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if skipped {
		t.Error("fresh download reported as skipped")
	}

	sum := md5.Sum(payload)
	if checksum != hex.EncodeToString(sum[:]) {
		t.Errorf("checksum = %q", checksum)
	}
	written, err := os.ReadFile(localPath)
	if err != nil || string(written) != string(payload) {
		t.Errorf("file contents = %q, err %v", written, err)
	}
}

func TestFetchSkipsExistingFile(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "statute.pdf")
	if err := os.WriteFile(localPath, []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	// No server: a request would fail, so success proves the skip.
	checksum, skipped, err := testFetcher().Fetch(context.Background(), "http://127.0.0.1:0/none", localPath)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !skipped || checksum == "" {
		t.Errorf("skipped = %v, checksum = %q", skipped, checksum)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("eventually"))
	}))
	defer server.Close()

	localPath := filepath.Join(t.TempDir(), "statute.pdf")
	_, _, err := testFetcher().Fetch(context.Background(), server.URL, localPath)
	if err != nil {
		t.Fatalf("Fetch failed after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	localPath := filepath.Join(t.TempDir(), "statute.pdf")
	_, _, err := testFetcher().Fetch(context.Background(), server.URL, localPath)
	if err == nil {
		t.Fatal("expected error for HTTP 404")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
	if _, statErr := os.Stat(localPath); !os.IsNotExist(statErr) {
		t.Error("partial file not cleaned up")
	}
}
