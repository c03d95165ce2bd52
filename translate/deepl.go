package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the DeepL free-plan API endpoint. Paid keys use
// api.deepl.com; pass it via Options.BaseURL.
const DefaultBaseURL = "https://api-free.deepl.com"

// DeepL is the live provider variant. Batches are split into chunks of
// at most ChunkSize strings and sent sequentially; a failed chunk is
// logged, counted, and returned untranslated — one bad chunk never
// aborts the batch.
type DeepL struct {
	apiKey  string
	baseURL string
	client  *http.Client
	opts    Options

	// failedChunks counts chunk requests that errored during the last
	// Translate call.
	failedChunks int
}

// NewDeepL builds the live variant without probing it. Most callers
// want New(), which probes and degrades.
func NewDeepL(opts Options) *DeepL {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &DeepL{
		apiKey:  opts.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  makeHTTPClient(opts.Proxy, opts.effectiveTimeout()),
		opts:    opts,
	}
}

// FailedChunks returns how many chunks errored during the most recent
// Translate call.
func (d *DeepL) FailedChunks() int {
	return d.failedChunks
}

// Translate implements Translator. Chunks are issued one at a time so
// output index i always corresponds to input index i, even across a
// chunk failure.
func (d *DeepL) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	d.failedChunks = 0
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([]string, 0, len(texts))
	chunks := splitChunks(texts, d.opts.effectiveChunkSize())
	done := 0

	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		translated, err := d.translateChunk(ctx, chunk, targetLang)
		if err != nil {
			d.failedChunks++
			d.opts.logError("chunk %d/%d failed: %v", i+1, len(chunks), err)
			// Degrade: this chunk stays untranslated.
			translated = chunk
		}
		out = append(out, translated...)

		done += len(chunk)
		if d.opts.OnProgress != nil {
			d.opts.OnProgress(done, len(texts))
		}
	}

	return out, nil
}

// probe checks the credential with a trivial single-string request.
func (d *DeepL) probe(ctx context.Context) error {
	got, err := d.translateChunk(ctx, []string{"Hello"}, "ko")
	if err != nil {
		return err
	}
	if len(got) != 1 || got[0] == "" {
		return fmt.Errorf("probe returned unusable response")
	}
	return nil
}

// deeplResponse is the v2/translate response shape.
type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// translateChunk issues one form-encoded request for up to ChunkSize
// strings and returns one output per input, same order.
func (d *DeepL) translateChunk(ctx context.Context, chunk []string, targetLang string) ([]string, error) {
	form := url.Values{}
	form.Set("auth_key", d.apiKey)
	form.Set("target_lang", strings.ToUpper(targetLang))
	for _, text := range chunk {
		form.Add("text", text)
	}

	endpoint := d.baseURL + "/v2/translate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed deeplResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Translations) != len(chunk) {
		return nil, fmt.Errorf("got %d translations for %d inputs", len(parsed.Translations), len(chunk))
	}

	out := make([]string, len(chunk))
	for i, tr := range parsed.Translations {
		if tr.Text == "" {
			// Keep the contract: never return an empty slot.
			out[i] = chunk[i]
			continue
		}
		out[i] = tr.Text
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
