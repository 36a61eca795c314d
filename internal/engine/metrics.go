package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the tools.
var metrics struct {
	ScrapeRequests     atomic.Int64
	CrawlRequests      atomic.Int64
	CrawlPages         atomic.Int64
	TranscriptRequests atomic.Int64
	FetchErrors        atomic.Int64
}

func IncrScrapeRequests()     { metrics.ScrapeRequests.Add(1) }
func IncrCrawlRequests()      { metrics.CrawlRequests.Add(1) }
func IncrCrawlPages(n int)    { metrics.CrawlPages.Add(int64(n)) }
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrFetchErrors()        { metrics.FetchErrors.Add(1) }

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"scrape_requests":     metrics.ScrapeRequests.Load(),
		"crawl_requests":      metrics.CrawlRequests.Load(),
		"crawl_pages":         metrics.CrawlPages.Load(),
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"fetch_errors":        metrics.FetchErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP
// metrics endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"scrape_requests", "crawl_requests", "crawl_pages",
		"transcript_requests", "fetch_errors",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
