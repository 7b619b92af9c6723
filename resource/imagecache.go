// Image cache: decodes and caches images referenced by CSS/HTML, fed by
// a Fetcher. Adapted from render/render.go's Canvas.ImageCache/LoadImage,
// which reads images synchronously into a map[string]image.Image; this
// version additionally drains a Fetcher's ProgressMsg channel to assemble
// the full byte payload before decoding, and is safe for concurrent use.
package resource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"sync"
)

// MemImageCache is an ImageCache that decodes images via a Fetcher and
// caches the decoded result by resolved URL.
type MemImageCache struct {
	Fetcher Fetcher

	mu    sync.Mutex
	cache map[string]Handle
}

// NewMemImageCache creates a cache backed by fetcher.
func NewMemImageCache(fetcher Fetcher) *MemImageCache {
	return &MemImageCache{
		Fetcher: fetcher,
		cache:   make(map[string]Handle),
	}
}

// Get returns the decoded image at u, fetching and decoding it on first
// request and serving the cached Handle thereafter.
func (c *MemImageCache) Get(ctx context.Context, u *url.URL) (Handle, error) {
	key := u.String()

	c.mu.Lock()
	if h, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	data, err := drain(ctx, c.Fetcher.Fetch(ctx, u))
	if err != nil {
		return Handle{}, fmt.Errorf("resource: loading image %s: %w", u, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Handle{}, fmt.Errorf("resource: decoding image %s: %w", u, err)
	}

	h := Handle{URL: key, Image: img}
	c.mu.Lock()
	c.cache[key] = h
	c.mu.Unlock()
	return h, nil
}

// drain collects every Payload from a ProgressMsg channel into a single
// byte slice, returning the Done error (if any).
func drain(ctx context.Context, msgs <-chan ProgressMsg) ([]byte, error) {
	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return buf.Bytes(), nil
			}
			if len(msg.Payload) > 0 {
				buf.Write(msg.Payload)
			}
			if msg.Done {
				if msg.Err != nil {
					return nil, msg.Err
				}
				return buf.Bytes(), nil
			}
		}
	}
}
