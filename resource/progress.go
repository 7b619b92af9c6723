// Package resource defines the external collaborators the CSS subsystem
// consumes but does not implement: the byte fetcher and the image cache.
package resource

import (
	"context"
	"image"
	"net/url"
)

// ProgressMsg is sent by a Fetcher as it streams a resource's bytes.
// Mirrors the original servo resource_task's ProgressMsg: a Payload
// carrying a chunk, followed by exactly one terminal Done.
type ProgressMsg struct {
	// Payload holds a chunk of bytes. Zero value (nil) on the terminal message.
	Payload []byte
	// Done is true on the terminal message; Err holds the failure, if any.
	Done bool
	Err  error
}

// Fetcher streams the bytes of a resource identified by a URL.
// Implementations send zero or more Payload messages followed by exactly
// one message with Done set, then close the channel.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) <-chan ProgressMsg
}

// Handle is an opaque reference to a cached, decoded image.
type Handle struct {
	URL   string
	Image image.Image
}

// ImageCache resolves a URL to a decoded image, caching by URL.
// cssstyle.Apply calls Get synchronously for each <img> element and waits
// for it to return; with MemImageCache, a cache miss includes the whole
// fetch and decode.
type ImageCache interface {
	Get(ctx context.Context, u *url.URL) (Handle, error)
}
