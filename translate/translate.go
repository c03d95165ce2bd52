// Package translate obtains translations for batches of UI strings.
//
// Two interchangeable strategies implement the same contract: a live
// DeepL HTTP client and a static fallback dictionary. New() picks one at
// construction time — callers never see the difference, they just get a
// Translator whose output always has one entry per input, in input
// order, with untranslatable entries passed through unchanged.
package translate

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// ChunkSize is the maximum number of strings sent in one provider
// request. DeepL rejects oversized form payloads, so batches are split
// and sent sequentially.
const ChunkSize = 50

// Translator converts a batch of source strings into the target
// language. The result always has the same length and order as the
// input; entries that could not be translated are returned unchanged.
// An empty batch yields an empty result with no network activity.
type Translator interface {
	Translate(ctx context.Context, texts []string, targetLang string) ([]string, error)
}

// Options configures translator construction and behavior.
type Options struct {
	// APIKey is the provider credential. Empty means no live provider:
	// New returns the fallback variant.
	APIKey string
	// BaseURL overrides the provider endpoint (used by tests and by
	// paid-plan endpoints). Default: the DeepL free API.
	BaseURL string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the per-request timeout. Default: 30s.
	Timeout time.Duration
	// ChunkSize is the number of strings per provider request.
	// Default: ChunkSize.
	ChunkSize int
	// OnLog emits progress messages during translation.
	OnLog func(format string, args ...any)
	// OnError emits per-chunk failure messages.
	OnError func(format string, args ...any)
	// OnProgress is called after each chunk with (done, total) counts.
	OnProgress func(done, total int)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveChunkSize() int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return ChunkSize
}

func (o *Options) effectiveTimeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return 30 * time.Second
}

// New constructs a Translator. With a credential present, the live
// provider is probed once with a trivial string; if the probe fails the
// construction degrades to the fallback dictionary with a logged
// warning. Without a credential the fallback is returned directly —
// a missing key is never an error.
func New(ctx context.Context, opts Options) Translator {
	if opts.APIKey == "" {
		opts.log("no API key provided, using built-in fallback dictionary")
		return NewFallback()
	}

	live := NewDeepL(opts)
	if err := live.probe(ctx); err != nil {
		opts.logError("provider probe failed (%v), degrading to fallback dictionary", err)
		return NewFallback()
	}
	return live
}

// makeHTTPClient builds the provider HTTP client, honoring an explicit
// proxy URL or the HTTP_PROXY/HTTPS_PROXY environment.
func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// splitChunks divides texts into ChunkSize-bounded slices, preserving
// order across the chunk boundary.
func splitChunks(texts []string, size int) [][]string {
	if size <= 0 || size >= len(texts) {
		return [][]string{texts}
	}
	var chunks [][]string
	for i := 0; i < len(texts); i += size {
		end := i + size
		if end > len(texts) {
			end = len(texts)
		}
		chunks = append(chunks, texts[i:end])
	}
	return chunks
}
