// Resource loading: fetches CSS/HTML/image bytes from the filesystem,
// http(s), or data URLs, and streams them as a chan ProgressMsg.
//
// Spec references:
// - HTML5 §2.5 URLs: URL resolution and resource fetching
// - RFC 2397: The "data" URL scheme
//
// Adapted from dom/loader.go's ResourceLoader: that version reads a
// resource fully into memory and returns it synchronously. This version
// streams it in fixed-size chunks over a channel, matching the producer
// side spec.md §5 requires of the fetcher task.
package resource

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// chunkSize bounds how much of a resource is read per Payload message.
const chunkSize = 4096

// Loader is a Fetcher backed by the filesystem, http(s), and data URLs.
type Loader struct {
	Client *http.Client
}

// NewLoader creates a Loader with a default http.Client.
func NewLoader() *Loader {
	return &Loader{Client: http.DefaultClient}
}

// Fetch streams u's bytes over the returned channel. The channel is
// closed after the terminal Done message is sent.
func (l *Loader) Fetch(ctx context.Context, u *url.URL) <-chan ProgressMsg {
	out := make(chan ProgressMsg, 1)

	go func() {
		defer close(out)

		r, err := l.open(ctx, u)
		if err != nil {
			send(ctx, out, ProgressMsg{Done: true, Err: err})
			return
		}
		defer r.Close()

		buf := make([]byte, chunkSize)
		for {
			select {
			case <-ctx.Done():
				send(ctx, out, ProgressMsg{Done: true, Err: ctx.Err()})
				return
			default:
			}

			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if !send(ctx, out, ProgressMsg{Payload: chunk}) {
					return
				}
			}
			if err == io.EOF {
				send(ctx, out, ProgressMsg{Done: true})
				return
			}
			if err != nil {
				send(ctx, out, ProgressMsg{Done: true, Err: err})
				return
			}
		}
	}()

	return out
}

// send delivers msg unless the context is cancelled first. Returns false
// if the send was aborted by cancellation.
func send(ctx context.Context, out chan<- ProgressMsg, msg ProgressMsg) bool {
	select {
	case out <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func (l *Loader) open(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	switch {
	case u.Scheme == "data":
		data, err := decodeDataURL(u)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	case u.Scheme == "http" || u.Scheme == "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("resource: building request for %s: %w", u, err)
		}
		resp, err := l.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("resource: fetching %s: %w", u, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: %s: HTTP %d", u, resp.StatusCode)
		}
		return resp.Body, nil
	default:
		f, err := os.Open(u.Path)
		if err != nil {
			return nil, fmt.Errorf("resource: opening %s: %w", u.Path, err)
		}
		return f, nil
	}
}

// decodeDataURL decodes a data: URL per RFC 2397.
// data:[<mediatype>][;base64],<data>
func decodeDataURL(u *url.URL) ([]byte, error) {
	dataStr := u.Opaque
	if dataStr == "" {
		dataStr = strings.TrimPrefix(u.String(), "data:")
	}

	commaIdx := strings.Index(dataStr, ",")
	if commaIdx == -1 {
		return nil, fmt.Errorf("resource: invalid data URL: missing comma")
	}

	metadata := dataStr[:commaIdx]
	data := dataStr[commaIdx+1:]

	if strings.HasSuffix(metadata, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("resource: decoding base64 data URL: %w", err)
		}
		return decoded, nil
	}

	decoded, err := url.QueryUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("resource: decoding data URL: %w", err)
	}
	return []byte(decoded), nil
}

// ResolveURL resolves relativeURL against baseURL, handling both real
// URLs and filesystem paths. Adapted from dom/url.go's ResolveURLString.
func ResolveURL(baseURL, relativeURL string) (*url.URL, error) {
	rel, err := url.Parse(relativeURL)
	if err != nil {
		return nil, fmt.Errorf("resource: parsing %q: %w", relativeURL, err)
	}
	if rel.IsAbs() {
		return rel, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("resource: parsing base %q: %w", baseURL, err)
	}
	if base.Scheme == "" {
		// Treat as a filesystem path.
		return &url.URL{Path: joinPath(base.Path, relativeURL)}, nil
	}
	return base.ResolveReference(rel), nil
}

func joinPath(base, rel string) string {
	if strings.HasPrefix(rel, "/") {
		return rel
	}
	if base == "" {
		return rel
	}
	if strings.HasSuffix(base, "/") {
		return base + rel
	}
	idx := strings.LastIndex(base, "/")
	if idx == -1 {
		return rel
	}
	return base[:idx+1] + rel
}
