package mdriver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPRender(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doc.md":
			if !strings.HasPrefix(r.Header.Get("Accept"), "text/markdown") {
				http.Error(w, "want markdown accept header", http.StatusNotAcceptable)
				return
			}
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			_, _ = w.Write([]byte("# Remote\n\nbody\n"))
		case "/logo.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("\x89PNG\r\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := HTTPRender(context.Background(), HTTPRenderRequest{
		URL:     srv.URL + "/doc.md",
		Client:  srv.Client(),
		Writer:  &out,
		Theme:   BoringTheme(),
		Options: []RenderOption{WithOSC8(false)},
	})
	if err != nil {
		t.Fatalf("http render: %v", err)
	}
	if out.String() != "# Remote\n\nbody\n" {
		t.Fatalf("got %q", out.String())
	}

	err = HTTPRender(context.Background(), HTTPRenderRequest{URL: srv.URL + "/missing", Writer: &out})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}

	out.Reset()
	err = HTTPRender(context.Background(), HTTPRenderRequest{URL: srv.URL + "/logo.png", Writer: &out})
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput for image/png, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("binary body leaked into output: %q", out.String())
	}
}

func TestBinaryMediaType(t *testing.T) {
	t.Parallel()
	tests := map[string]bool{
		"text/markdown; charset=utf-8": false,
		"text/plain":                   false,
		"text/html":                    false,
		"":                             false,
		"not a media type;;":           false,
		"image/png":                    true,
		"video/mp4":                    true,
		"application/octet-stream":     true,
		"application/pdf":              true,
	}
	for header, want := range tests {
		if got := binaryMediaType(contentMediaType(header)); got != want {
			t.Fatalf("binaryMediaType(%q) = %v, want %v", header, got, want)
		}
	}
}

func TestHTTPRenderValidation(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	if err := HTTPRender(context.Background(), HTTPRenderRequest{Writer: &out}); err == nil {
		t.Fatalf("missing URL should fail")
	}
	if err := HTTPRender(context.Background(), HTTPRenderRequest{URL: "http://x"}); err == nil {
		t.Fatalf("missing writer should fail")
	}
	err := HTTPRender(context.Background(), HTTPRenderRequest{URL: "ftp://example.com/a.md", Writer: &out})
	if err == nil || !strings.Contains(err.Error(), "unsupported scheme") {
		t.Fatalf("expected scheme error, got %v", err)
	}
}

func TestHTTPRenderHonorsContext(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if err := HTTPRender(ctx, HTTPRenderRequest{URL: srv.URL, Writer: &out}); err == nil {
		t.Fatalf("cancelled context should fail")
	}
}
