package toolserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/signorecello/openwebui-extras/internal/engine"
	"github.com/signorecello/openwebui-extras/internal/engine/sources"
)

func registerCrawlWebsite(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "crawl_website",
		Description: "Crawl a website and its subpages, returning an ordered list of {url, title, content, errors} records, one per page. Submits an asynchronous crawl job and polls it to completion. Page limit and max depth default to the configured values.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.CrawlWebsiteInput) (*mcp.CallToolResult, engine.CrawlWebsiteOutput, error) {
		if input.URL == "" {
			return nil, engine.CrawlWebsiteOutput{}, fmt.Errorf("url is required")
		}
		out, err := runCrawl(ctx, d, input)
		return nil, out, err
	})
}

// runCrawl submits a crawl job, polls it to a terminal status, and
// normalizes the returned documents in order. A failed job yields an
// empty result list and one error notification, not an error; faults
// while submitting, polling, or normalizing propagate to the caller.
func runCrawl(ctx context.Context, d Deps, input engine.CrawlWebsiteInput) (engine.CrawlWebsiteOutput, error) {
	engine.IncrCrawlRequests()

	n := engine.NewNotifier(d.Sink, d.Config.ShowProgress)
	n.Progress(fmt.Sprintf("Starting crawl of %s", input.URL))

	limit := input.Limit
	if limit <= 0 {
		limit = d.Config.Limit
	}
	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = d.Config.MaxDepth
	}
	formats := input.Formats
	if len(formats) == 0 {
		formats = []string{d.Config.DefaultFormat}
	}

	fc := sources.NewFirecrawl(d.Config)
	n.Progress("Starting crawl document load")
	jobID, err := fc.StartCrawl(ctx, input.URL, limit, maxDepth, formats)
	if err != nil {
		return engine.CrawlWebsiteOutput{}, err
	}
	slog.Debug("crawl job submitted", slog.String("id", jobID), slog.String("url", input.URL))

	job, err := fc.WaitCrawl(ctx, jobID)
	if err != nil {
		return engine.CrawlWebsiteOutput{}, err
	}

	if job.Status == engine.JobFailed {
		slog.Warn("crawl failed", slog.String("id", jobID), slog.String("url", input.URL), slog.String("reason", job.Error))
		n.Error(fmt.Sprintf("Crawl failed for URL: %s", input.URL))
		return engine.CrawlWebsiteOutput{Results: []engine.PageResult{}}, nil
	}

	docs := job.Data
	n.Progress(fmt.Sprintf("Crawl successful. Received %d documents. Processing...", len(docs)))

	results := make([]engine.PageResult, 0, len(docs))
	for i, doc := range docs {
		n.Progress(fmt.Sprintf("Processing document %d/%d", i+1, len(docs)))
		result, err := engine.BuildResult(doc, d.Config)
		if err != nil {
			// Strict policy: one malformed document fails the crawl.
			return engine.CrawlWebsiteOutput{}, fmt.Errorf("document %d/%d: %w", i+1, len(docs), err)
		}
		results = append(results, result)
	}
	engine.IncrCrawlPages(len(results))

	n.Success(fmt.Sprintf("Successfully processed %d pages", len(results)))
	return engine.CrawlWebsiteOutput{Results: results}, nil
}
