package wadl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError   ErrorCode = "InputError"
	NetworkError ErrorCode = "NetworkError"
	ParseError   ErrorCode = "ParseError"
)

// DocError is a structured error with the location of the failing document.
type DocError struct {
	Code     ErrorCode
	Message  string
	Location string // file path or URL
	Cause    error
}

func (e *DocError) Error() string { return e.Message }
func (e *DocError) Unwrap() error { return e.Cause }

// Loader resolves and reads WADL documents and included schemas. The
// generator only sees this interface; the default implementation reads local
// files and http/https URLs.
type Loader interface {
	Load(ctx context.Context, href string) (*Application, error)
}

// Settings configures document loading behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }

// FileLoader reads documents from the filesystem and over http/https.
type FileLoader struct {
	settings Settings
}

// NewLoader builds the default document loader.
func NewLoader(opts ...Option) *FileLoader {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	return &FileLoader{settings: settings}
}

// Load reads and parses the document at href, which may be a filesystem path
// or an http/https URL.
func (l *FileLoader) Load(ctx context.Context, href string) (*Application, error) {
	if strings.TrimSpace(href) == "" {
		return nil, &DocError{Code: InputError, Message: "wadl: document reference is empty"}
	}

	u, uerr := url.Parse(href)
	isURL := uerr == nil && u.Scheme != "" && u.Host != ""

	if isURL {
		scheme := strings.ToLower(u.Scheme)
		if scheme != "http" && scheme != "https" {
			return nil, &DocError{Code: InputError, Message: fmt.Sprintf("wadl: unsupported URL scheme %q (only http/https allowed)", scheme), Location: href}
		}
		raw, err := fetchWithRetry(ctx, href, l.settings)
		if err != nil {
			return nil, &DocError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", href, err), Location: href, Cause: err}
		}
		root, err := Parse(strings.NewReader(string(raw)))
		if err != nil {
			return nil, locate(err, href)
		}
		return &Application{Root: root, Path: href}, nil
	}

	abs, err := filepath.Abs(href)
	if err != nil {
		return nil, &DocError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: href, Cause: err}
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, &DocError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
	}
	defer f.Close()
	root, err := Parse(f)
	if err != nil {
		return nil, locate(err, abs)
	}
	// Keep forward slashes in the system id so relative reference resolution
	// works uniformly for files and URLs.
	return &Application{Root: root, Path: filepath.ToSlash(abs)}, nil
}

func locate(err error, location string) error {
	var de *DocError
	if errors.As(err, &de) && de.Location == "" {
		de.Location = location
		return de
	}
	return err
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	var lastErr error
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode < 300 {
			defer resp.Body.Close()
			return io.ReadAll(resp.Body)
		}
		if err != nil {
			lastErr = err
		} else {
			defer resp.Body.Close()
			if resp.StatusCode >= 500 || resp.StatusCode == 429 {
				lastErr = fmt.Errorf("transient http error %d", resp.StatusCode)
			} else {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}
