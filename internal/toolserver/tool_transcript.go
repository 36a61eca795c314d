package toolserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/signorecello/openwebui-extras/internal/engine"
	"github.com/signorecello/openwebui-extras/internal/engine/sources"
)

func registerFetchTranscript(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_youtube_transcript",
		Description: "Fetch the transcript of a YouTube video given its URL, without an API key. Supports watch?v= and youtu.be/ URL shapes. Failures are reported as descriptive strings in the transcript field.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TranscriptInput) (*mcp.CallToolResult, engine.TranscriptOutput, error) {
		if input.VideoURL == "" {
			return nil, engine.TranscriptOutput{}, fmt.Errorf("video_url is required")
		}

		n := engine.NewNotifier(d.Sink, d.Config.ShowProgress)
		yt := sources.NewYouTube(d.Config)
		text := yt.FetchTranscript(ctx, input.VideoURL, n)
		return nil, engine.TranscriptOutput{Transcript: text}, nil
	})
}
