// Package webfetch is a callable tool that downloads a web page and hands
// it to the model as Markdown.
package webfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/leofalp/agentils/internal/utils"
	"github.com/leofalp/agentils/providers/observability"
	"github.com/leofalp/agentils/providers/tool"
)

// Name is the function name the model sees.
const Name = "fetch_url"

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "agentils-webfetch/1.0"
	// MaxBodySize caps the downloaded body at 10 MiB.
	MaxBodySize  = 10 << 20
	maxRedirects = 10
)

// ErrEmptyURL is returned when the model omits the URL.
var ErrEmptyURL = errors.New("URL cannot be empty")

// Input is the parameter list of fetch_url.
type Input struct {
	URL string `json:"url" jsonschema:"description=Page to fetch. A missing scheme defaults to https"`
	// MaxChars truncates the Markdown; zero keeps everything.
	MaxChars int `json:"max_chars,omitempty" jsonschema:"description=Maximum number of characters of Markdown to return"`
}

// Output is returned to the model.
type Output struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Markdown string `json:"markdown"`
}

// Fetcher downloads pages. Use [NewFetcher] to build one.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures a [Fetcher].
type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher returns a fetcher with bounded dial, TLS and header timeouts
// and at most ten redirects.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				IdleConnTimeout:       90 * time.Second,
				ForceAttemptHTTP2:     true,
			},
			CheckRedirect: limitRedirects,
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func limitRedirects(_ *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("too many redirects (>%d)", maxRedirects)
	}
	return nil
}

// New returns the fetch_url tool backed by f, or by a default fetcher when
// f is nil.
func New(f *Fetcher) *tool.Function[Input, Output] {
	if f == nil {
		f = NewFetcher()
	}
	return tool.MustFunction(Name, f.Fetch,
		tool.WithDescription("Fetch a web page and return its content converted to Markdown."),
	)
}

// Fetch downloads in.URL and converts the HTML body to Markdown. Non-200
// responses and bodies larger than [MaxBodySize] are errors.
func (f *Fetcher) Fetch(ctx context.Context, in Input) (Output, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return Output{}, ErrEmptyURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Output{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return Output{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer utils.CloseWithLog(resp.Body)

	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(
			observability.String(observability.AttrHTTPMethod, http.MethodGet),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPStatusCode, resp.StatusCode),
		)
	}

	if resp.StatusCode != http.StatusOK {
		return Output{}, fmt.Errorf("unexpected status code: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return Output{}, fmt.Errorf("read response body: %w", err)
	}
	if len(body) > MaxBodySize {
		return Output{}, fmt.Errorf("response body exceeds maximum size of %d bytes", MaxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return Output{}, fmt.Errorf("convert HTML to Markdown: %w", err)
	}
	if in.MaxChars > 0 {
		markdown = utils.TruncateString(markdown, in.MaxChars)
	}

	return Output{
		URL:      resp.Request.URL.String(),
		Title:    pageTitle(string(body)),
		Markdown: markdown,
	}, nil
}

// pageTitle returns the text of the first <title> element.
func pageTitle(page string) string {
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) != "title" {
				continue
			}
			if z.Next() != html.TextToken {
				return ""
			}
			return strings.TrimSpace(string(z.Text()))
		}
	}
}
