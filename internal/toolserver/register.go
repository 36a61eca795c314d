// Package toolserver registers the chat-assistant plugin tools on the
// MCP server: scrape_website, crawl_website, fetch_youtube_transcript.
package toolserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/signorecello/openwebui-extras/internal/engine"
)

// Deps carries the explicit per-server dependencies: the immutable tool
// configuration and the notification sink events are delivered to.
type Deps struct {
	Config engine.Config
	Sink   engine.Sink
}

// RegisterTools registers all tools on the given MCP server.
func RegisterTools(server *mcp.Server, deps Deps) {
	registerScrapeWebsite(server, deps)
	registerCrawlWebsite(server, deps)
	registerFetchTranscript(server, deps)
}
