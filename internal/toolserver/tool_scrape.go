package toolserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/signorecello/openwebui-extras/internal/engine"
	"github.com/signorecello/openwebui-extras/internal/engine/sources"
)

func registerScrapeWebsite(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "scrape_website",
		Description: "Scrape a single website page, returning its title and content as a one-element list of {url, title, content, errors} records. HTML content is cleaned of citations, links and images when cleaning is enabled.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ScrapeWebsiteInput) (*mcp.CallToolResult, engine.ScrapeWebsiteOutput, error) {
		if input.URL == "" {
			return nil, engine.ScrapeWebsiteOutput{}, fmt.Errorf("url is required")
		}
		out, err := runScrape(ctx, d, input)
		return nil, out, err
	})
}

// runScrape performs one synchronous page fetch and yields exactly one
// result record.
func runScrape(ctx context.Context, d Deps, input engine.ScrapeWebsiteInput) (engine.ScrapeWebsiteOutput, error) {
	engine.IncrScrapeRequests()

	n := engine.NewNotifier(d.Sink, d.Config.ShowProgress)
	n.Progress(fmt.Sprintf("Starting scraping of %s", input.URL))

	formats := input.Formats
	if len(formats) == 0 {
		formats = []string{d.Config.DefaultFormat}
	}

	fc := sources.NewFirecrawl(d.Config)
	n.Progress("Starting scrape document load")
	doc, err := fc.Scrape(ctx, input.URL, formats)
	if err != nil {
		return engine.ScrapeWebsiteOutput{}, err
	}

	n.Progress("Scrape successful. Processing...")
	result, err := engine.BuildResult(doc, d.Config)
	if err != nil {
		return engine.ScrapeWebsiteOutput{}, err
	}

	n.Success("Successfully processed scrape")
	return engine.ScrapeWebsiteOutput{Results: []engine.PageResult{result}}, nil
}
