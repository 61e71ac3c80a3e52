package mdriver

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// markdownAccept prefers markdown but takes any text a server offers.
const markdownAccept = "text/markdown, text/x-markdown;q=0.9, text/plain;q=0.8, */*;q=0.1"

// HTTPRenderRequest configures HTTPRender. Client defaults to
// http.DefaultClient.
type HTTPRenderRequest struct {
	URL     string
	Client  *http.Client
	Writer  io.Writer
	Width   int
	Theme   Theme
	Options []RenderOption
	Strict  bool
}

// HTTPRender fetches Markdown over HTTP(S) and renders the body while it
// downloads. Non-2xx responses and binary content types are errors.
func HTTPRender(ctx context.Context, req HTTPRenderRequest) error {
	if req.URL == "" {
		return fmt.Errorf("stream http: URL is required")
	}
	if req.Writer == nil {
		return fmt.Errorf("stream http: Writer is nil")
	}
	body, err := openMarkdown(ctx, req.Client, req.URL)
	if err != nil {
		return fmt.Errorf("stream http: %w", err)
	}
	defer body.Close()
	return Render(RenderRequest{
		Reader:  body,
		Writer:  req.Writer,
		Width:   req.Width,
		Theme:   req.Theme,
		Options: req.Options,
		Strict:  req.Strict,
	})
}

func openMarkdown(ctx context.Context, client *http.Client, rawURL string) (io.ReadCloser, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if s := httpReq.URL.Scheme; s != "http" && s != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", s)
	}
	httpReq.Header.Set("Accept", markdownAccept)
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: status %s", rawURL, resp.Status)
	}
	if mt := contentMediaType(resp.Header.Get("Content-Type")); binaryMediaType(mt) {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: content type %s", ErrBinaryInput, mt)
	}
	return resp.Body, nil
}

func contentMediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mt
}

func binaryMediaType(mt string) bool {
	switch mt {
	case "application/octet-stream", "application/pdf", "application/zip", "application/gzip":
		return true
	}
	for _, prefix := range []string{"image/", "audio/", "video/", "font/"} {
		if strings.HasPrefix(mt, prefix) {
			return true
		}
	}
	return false
}
