// openwebui-extras — web scraping & YouTube transcript MCP server.
//
// Exposes three MCP tools: scrape_website, crawl_website,
// fetch_youtube_transcript. Runs as HTTP MCP server or stdio transport.
package main

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/signorecello/openwebui-extras/internal/engine"
	"github.com/signorecello/openwebui-extras/internal/toolserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	cfg := loadConfig()

	slog.Info("starting openwebui-extras",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "openwebui-extras",
		Version: version,
	}, nil)

	sink := engine.NewAsyncSink(engine.SlogSink{}, 64)
	defer sink.Close()

	toolserver.RegisterTools(server, toolserver.Deps{Config: cfg, Sink: sink})
	slog.Info("tools registered", slog.Int("count", 3))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "openwebui-extras",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func loadConfig() engine.Config {
	c := engine.Config{
		APIURL:             env.Str("FIRECRAWL_API_URL", "https://api.firecrawl.dev"),
		APIKey:             env.Str("FIRECRAWL_API_KEY", "api_key"),
		Limit:              env.Int("CRAWL_LIMIT", 100),
		MaxDepth:           env.Int("CRAWL_MAX_DEPTH", 2),
		DefaultFormat:      env.Str("DEFAULT_FORMAT", "html"),
		CleanContent:       envBool("CLEAN_CONTENT", true),
		ConvertMarkdown:    envBool("CONVERT_MARKDOWN", false),
		ShowProgress:       envBool("SHOW_LOGS", true),
		TranscriptLanguage: env.Str("TRANSCRIPT_LANGUAGE", "en"),
		PollInterval:       env.Duration("CRAWL_POLL_INTERVAL", 2*time.Second),
		PollTimeout:        env.Duration("CRAWL_POLL_TIMEOUT", 10*time.Minute),
		FetchTimeout:       env.Duration("FETCH_TIMEOUT", 30*time.Second),
	}

	// Optional Chrome-fingerprint client for the YouTube watch page.
	if envBool("BROWSER_TLS", false) {
		bc, err := engine.NewBrowserClient(15)
		if err != nil {
			slog.Warn("browser client init failed, using plain HTTP", slog.Any("error", err))
		} else {
			c.Browser = bc
			slog.Info("browser TLS client initialized")
		}
	}

	return c.WithDefaults()
}

// envBool reads a boolean env var, falling back to def on empty or
// unparseable values.
func envBool(key string, def bool) bool {
	v := env.Str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
