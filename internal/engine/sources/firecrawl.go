package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/signorecello/openwebui-extras/internal/engine"
	"golang.org/x/time/rate"
)

// Firecrawl is a client for a Firecrawl-compatible crawl/scrape API:
// synchronous scrape, asynchronous crawl submit, and crawl status check.
type Firecrawl struct {
	baseURL      string
	apiKey       string
	http         *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewFirecrawl builds a client from the tool configuration.
func NewFirecrawl(cfg engine.Config) *Firecrawl {
	return &Firecrawl{
		baseURL:      cfg.APIURL,
		apiKey:       cfg.APIKey,
		http:         cfg.HTTPClient,
		pollInterval: cfg.PollInterval,
		pollTimeout:  cfg.PollTimeout,
	}
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool            `json:"success"`
	Data    engine.Document `json:"data"`
	Error   string          `json:"error"`
}

type crawlRequest struct {
	URL           string        `json:"url"`
	Limit         int           `json:"limit"`
	MaxDepth      int           `json:"maxDepth"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type scrapeOptions struct {
	Formats []string `json:"formats"`
}

type crawlSubmitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error"`
}

type crawlStatusResponse struct {
	Status string            `json:"status"`
	Data   []engine.Document `json:"data"`
	Error  string            `json:"error"`
}

// Scrape fetches a single page synchronously.
func (c *Firecrawl) Scrape(ctx context.Context, pageURL string, formats []string) (engine.Document, error) {
	var out scrapeResponse
	if err := c.do(ctx, http.MethodPost, "/v1/scrape", scrapeRequest{URL: pageURL, Formats: formats}, &out); err != nil {
		return engine.Document{}, err
	}
	if !out.Success {
		return engine.Document{}, fmt.Errorf("scrape %s: %s", pageURL, apiError(out.Error))
	}
	return out.Data, nil
}

// StartCrawl submits an asynchronous crawl job and returns its id.
func (c *Firecrawl) StartCrawl(ctx context.Context, seedURL string, limit, maxDepth int, formats []string) (string, error) {
	req := crawlRequest{
		URL:           seedURL,
		Limit:         limit,
		MaxDepth:      maxDepth,
		ScrapeOptions: scrapeOptions{Formats: formats},
	}
	var out crawlSubmitResponse
	if err := c.do(ctx, http.MethodPost, "/v1/crawl", req, &out); err != nil {
		return "", err
	}
	if !out.Success || out.ID == "" {
		return "", fmt.Errorf("crawl submit %s: %s", seedURL, apiError(out.Error))
	}
	return out.ID, nil
}

// CrawlStatus checks one crawl job. Remote statuses other than
// "completed" and "failed" map to pending.
func (c *Firecrawl) CrawlStatus(ctx context.Context, jobID string) (*engine.CrawlJob, error) {
	var out crawlStatusResponse
	if err := c.do(ctx, http.MethodGet, "/v1/crawl/"+jobID, nil, &out); err != nil {
		return nil, err
	}
	job := &engine.CrawlJob{ID: jobID, Status: engine.JobPending}
	switch out.Status {
	case "completed":
		job.Status = engine.JobCompleted
		job.Data = out.Data
	case "failed":
		job.Status = engine.JobFailed
		job.Error = out.Error
	}
	return job, nil
}

// WaitCrawl polls the job on a fixed interval until it reaches a
// terminal status. The loop is bounded by the configured poll timeout;
// hitting it is an error, not an empty result.
func (c *Firecrawl) WaitCrawl(ctx context.Context, jobID string) (*engine.CrawlJob, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("crawl %s did not finish within %s: %w", jobID, c.pollTimeout, err)
		}
		job, err := c.CrawlStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Status.Terminal() {
			return job, nil
		}
	}
}

func (c *Firecrawl) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		engine.IncrFetchErrors()
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		engine.IncrFetchErrors()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode, snippet)
	}

	data, err := engine.ReadResponseBody(resp)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

func apiError(msg string) string {
	if msg == "" {
		return "request not successful"
	}
	return msg
}
