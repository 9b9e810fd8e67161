package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
	maxErrorExcerpt = 200
)

type baseGeocoder struct {
	name     string
	endpoint string
	client   *http.Client
	limiter  *RateLimiter
}

func newBaseGeocoder(name, endpoint string, timeout time.Duration, limiter *RateLimiter) baseGeocoder {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return baseGeocoder{
		name:     name,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
	}
}

func (b *baseGeocoder) Name() string {
	return b.name
}

// fail tags err with this provider's name.
func (b *baseGeocoder) fail(err error) error {
	return core.NewProviderError(b.name, err)
}

// getJSON issues a rate limited GET and decodes a 200 response into out.
// A follow-up call skips the admission check but still re-arms the cooldown.
func (b *baseGeocoder) getJSON(ctx context.Context, params url.Values, out any) error {
	if b.limiter != nil {
		if !core.IsFollowUp(ctx) && !b.limiter.Allow(b.name) {
			return b.fail(core.ErrRateLimited)
		}
		defer b.limiter.Done(b.name)
	}

	reqURL := b.endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return b.fail(fmt.Errorf("%w: create request: %v", core.ErrTransport, err))
	}
	req.Header.Set("User-Agent", core.AppUserAgent)
	req.Header.Set("Accept", "application/json")

	log.FromCtx(ctx).Debug().Str("service", b.name).Msg("geocoder request")

	resp, err := b.client.Do(req)
	if err != nil {
		return b.fail(fmt.Errorf("%w: %v", core.ErrTransport, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return b.fail(fmt.Errorf("%w: read body: %v", core.ErrTransport, err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return b.fail(core.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return b.fail(fmt.Errorf("%w: http %d: %s", core.ErrTransport, resp.StatusCode,
			excerpt(resp.Header.Get("Content-Type"), body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return b.fail(fmt.Errorf("%w: decode response: %v", core.ErrTransport, err))
	}
	return nil
}

// excerpt returns a short readable version of an error body.
func excerpt(contentType string, body []byte) string {
	text := string(body)
	if strings.Contains(contentType, "html") {
		if plain, err := html2text.FromString(text, html2text.Options{OmitLinks: true}); err == nil {
			text = plain
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxErrorExcerpt {
		text = text[:maxErrorExcerpt] + "..."
	}
	return text
}
