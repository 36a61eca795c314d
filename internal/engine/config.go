package engine

import (
	"net/http"
	"time"
)

// Config holds all tool configuration, assembled once in main and passed
// explicitly to each component at construction. There is no process-global
// config state.
type Config struct {
	// Firecrawl-compatible crawl/scrape API.
	APIURL string
	APIKey string

	// Crawl defaults, overridable per call.
	Limit    int
	MaxDepth int

	// DefaultFormat is the content format requested from the crawl API
	// when the caller does not override it ("html" or "markdown").
	DefaultFormat string

	// CleanContent strips citations, links and images from the HTML
	// branch of scraped content.
	CleanContent bool

	// ConvertMarkdown converts the cleaned HTML branch to Markdown to
	// cut tokens further. Only applies to the HTML branch.
	ConvertMarkdown bool

	// ShowProgress toggles progress notifications. When false every
	// notifier call is a silent no-op.
	ShowProgress bool

	// TranscriptLanguage is the preferred caption language.
	TranscriptLanguage string

	// Crawl polling. The poll loop is bounded: it gives up with an error
	// once PollTimeout elapses without a terminal job status.
	PollInterval time.Duration
	PollTimeout  time.Duration

	FetchTimeout time.Duration

	// HTTPClient is used for all outbound calls unless Browser is set
	// for the endpoints that need it.
	HTTPClient *http.Client

	// Browser, when non-nil, fetches the YouTube watch page with a
	// Chrome TLS fingerprint. Optional.
	Browser *BrowserClient
}

// WithDefaults fills zero-value fields with the documented defaults.
func (c Config) WithDefaults() Config {
	if c.APIURL == "" {
		c.APIURL = "https://api.firecrawl.dev"
	}
	if c.Limit <= 0 {
		c.Limit = 100
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 2
	}
	if c.DefaultFormat == "" {
		c.DefaultFormat = "html"
	}
	if c.TranscriptLanguage == "" {
		c.TranscriptLanguage = "en"
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = 10 * time.Minute
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = NewFetchClient(c.FetchTimeout)
	}
	return c
}
