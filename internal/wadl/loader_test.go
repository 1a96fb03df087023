package wadl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, err := NewLoader().Load(ctx, filepath.Join(t.TempDir(), "absent.wadl"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	var de *DocError
	if !errors.As(err, &de) || de.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
	if de.Location == "" {
		t.Errorf("expected location on the error")
	}
}

func TestLoad_UnsupportedScheme(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, err := NewLoader().Load(ctx, "ftp://example.com/app.wadl")
	if err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
	var de *DocError
	if !errors.As(err, &de) || de.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.wadl")
	if err := os.WriteFile(path, []byte(bookstoreDoc), 0o600); err != nil {
		t.Fatalf("write doc: %v", err)
	}

	app, err := NewLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if app.Root.Name.Local != "application" {
		t.Errorf("unexpected root %v", app.Root.Name)
	}
	if app.Path == "" || filepath.Base(app.Path) != "app.wadl" {
		t.Errorf("system id not recorded: %q", app.Path)
	}
}

func TestLoad_ParseErrorCarriesLocation(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.wadl")
	if err := os.WriteFile(path, []byte("<application>"), 0o600); err != nil {
		t.Fatalf("write doc: %v", err)
	}

	_, err := NewLoader().Load(context.Background(), path)
	var de *DocError
	if !errors.As(err, &de) || de.Code != ParseError {
		t.Fatalf("expected ParseError, got %v (%T)", err, err)
	}
	if de.Location == "" {
		t.Errorf("expected location on the error")
	}
}

func TestLoad_HTTPRetriesTransientFailures(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(bookstoreDoc))
	}))
	defer srv.Close()

	app, err := NewLoader(WithMaxRetries(3), WithBackoffBase(time.Millisecond)).Load(context.Background(), srv.URL+"/app.wadl")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if app.Root.Name.Local != "application" {
		t.Errorf("unexpected root %v", app.Root.Name)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestLoad_HTTPClientErrorDoesNotRetry(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewLoader(WithMaxRetries(3), WithBackoffBase(time.Millisecond)).Load(context.Background(), srv.URL+"/app.wadl")
	if err == nil {
		t.Fatalf("expected error for 404 response")
	}
	var de *DocError
	if !errors.As(err, &de) || de.Code != NetworkError {
		t.Fatalf("expected NetworkError, got %v (%T)", err, err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected a single attempt, got %d", got)
	}
}
