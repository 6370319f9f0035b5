package corpus

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
)

// FetchConfig controls the PDF fetcher.
type FetchConfig struct {
	// UserAgent is sent on every request.
	UserAgent string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// MaxRetries is the number of attempts per URL.
	MaxRetries uint

	// RetryBaseDelay seeds the backoff between attempts.
	RetryBaseDelay time.Duration
}

// Fetcher downloads source PDFs, skipping files already on disk and
// retrying transient failures with backoff.
type Fetcher struct {
	config FetchConfig
	client *http.Client
}

// NewFetcher creates a Fetcher, filling config defaults.
func NewFetcher(config FetchConfig) *Fetcher {
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryBaseDelay <= 0 {
		config.RetryBaseDelay = 2 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "restatute/1.0"
	}
	return &Fetcher{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// retryableHTTPError marks a 5xx response worth another attempt.
type retryableHTTPError struct {
	StatusCode int
	URL        string
}

func (err *retryableHTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", err.StatusCode, err.URL)
}

// Fetch downloads one URL to localPath and returns the file's MD5
// checksum. An existing non-empty file is reused without a request,
// matching the resumable behavior of the manifest.
func (fetcher *Fetcher) Fetch(ctx context.Context, downloadURL, localPath string) (checksum string, skipped bool, err error) {
	if info, statErr := os.Stat(localPath); statErr == nil && info.Size() > 0 {
		existing, hashErr := fileMD5(localPath)
		if hashErr != nil {
			return "", false, hashErr
		}
		return existing, true, nil
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return "", false, fmt.Errorf("failed to create directory for %s: %w", localPath, err)
	}

	err = retry.Do(
		func() error {
			return fetcher.attempt(ctx, downloadURL, localPath)
		},
		retry.Context(ctx),
		retry.Attempts(fetcher.config.MaxRetries),
		retry.Delay(fetcher.config.RetryBaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			_, transient := err.(*retryableHTTPError)
			return transient
		}),
	)
	if err != nil {
		os.Remove(localPath)
		return "", false, err
	}

	checksum, err = fileMD5(localPath)
	return checksum, false, err
}

// attempt performs a single download.
func (fetcher *Fetcher) attempt(ctx context.Context, downloadURL, localPath string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("User-Agent", fetcher.config.UserAgent)

	response, err := fetcher.client.Do(request)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", downloadURL, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 500 {
		return &retryableHTTPError{StatusCode: response.StatusCode, URL: downloadURL}
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d for %s", response.StatusCode, downloadURL)
	}

	outputFile, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", localPath, err)
	}
	defer outputFile.Close()

	if _, err := io.Copy(outputFile, response.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	return nil
}

// fileMD5 returns the hex MD5 checksum of a file on disk.
func fileMD5(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
