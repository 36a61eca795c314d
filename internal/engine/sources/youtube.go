package sources

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/signorecello/openwebui-extras/internal/engine"
)

// YouTube transcript fetching without an API key: scrape the watch page,
// locate the captionTracks fragment, fetch the first caption track's
// timedtext XML. The fragment is located by substring search against a
// fixed textual pattern — a narrow scraping contract, brittle by nature.

const (
	watchBaseURL        = "https://www.youtube.com/watch?v="
	captionTracksMarker = `"captionTracks":`
	baseURLMarker       = `"baseUrl":"`
)

// videoIDRe matches the 11-character video id in both
// ...watch?v=<id> and ...youtu.be/<id> URL shapes.
var videoIDRe = regexp.MustCompile(`(?:v=|youtu\.be/)([A-Za-z0-9_-]{11})`)

// ExtractVideoID extracts the YouTube video id from a URL, or returns
// the empty string when neither URL shape matches.
func ExtractVideoID(videoURL string) string {
	m := videoIDRe.FindStringSubmatch(videoURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractCaptionURL extracts the first baseUrl field value from a
// captionTracks fragment, unescaping \u0026 to &. Returns the empty
// string when no baseUrl is present.
func ExtractCaptionURL(captionsData string) string {
	start := strings.Index(captionsData, baseURLMarker)
	if start == -1 {
		return ""
	}
	start += len(baseURLMarker)
	end := strings.Index(captionsData[start:], `"`)
	if end == -1 {
		return ""
	}
	return strings.ReplaceAll(captionsData[start:start+end], `\u0026`, "&")
}

// --- Timedtext XML ---

type timedText struct {
	Lines []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Text string `xml:",chardata"`
}

// YouTube double-escapes some entities in timedtext payloads; they
// survive XML decoding as literals.
var timedTextReplacer = strings.NewReplacer("&#39;", "'", "&amp;", "&")

// ParseTimedText concatenates every <text> element of a caption track
// XML document, joined by single spaces, in caption-track order.
func ParseTimedText(data []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := timedTextReplacer.Replace(line.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	if sb.Len() == 0 {
		return "", errors.New("no caption text")
	}
	return sb.String(), nil
}

// YouTube fetches video transcripts by scraping public watch pages.
type YouTube struct {
	cfg       engine.Config
	watchBase string
}

// NewYouTube builds a transcript fetcher from the tool configuration.
// cfg.TranscriptLanguage is declared configuration but is not applied to
// the request: the first listed caption track is used.
// TODO: honor TranscriptLanguage once track metadata is parsed instead
// of taking the first baseUrl.
func NewYouTube(cfg engine.Config) *YouTube {
	return &YouTube{cfg: cfg, watchBase: watchBaseURL}
}

// FetchTranscript fetches the transcript for a video URL. Every failure
// is terminal and reported as a descriptive string, never an error; no
// retries are attempted.
func (y *YouTube) FetchTranscript(ctx context.Context, videoURL string, n *engine.Notifier) string {
	engine.IncrTranscriptRequests()

	n.Progress("Extracting video ID...")
	videoID := ExtractVideoID(videoURL)
	if videoID == "" {
		return "Invalid YouTube URL"
	}

	n.Progress("Fetching video page...")
	body, err := y.fetchWatchPage(ctx, y.watchBase+videoID)
	if err != nil {
		engine.IncrFetchErrors()
		n.Error("Failed to fetch video")
		return fmt.Sprintf("Failed to fetch YouTube video page: %v", err)
	}

	n.Progress("Extracting captions data...")
	start := strings.Index(body, captionTracksMarker)
	if start == -1 {
		n.Error("No captions available")
		return "No captions found for video"
	}
	end := strings.Index(body[start:], "]")
	if end == -1 {
		return "Invalid captions data"
	}
	captionsData := body[start : start+end+1]

	captionURL := ExtractCaptionURL(captionsData)
	if captionURL == "" {
		n.Error("No suitable captions found")
		return "No suitable captions found"
	}

	n.Progress("Downloading transcript...")
	captionXML, err := y.get(ctx, captionURL, engine.UserAgentBot)
	if err != nil {
		engine.IncrFetchErrors()
		return fmt.Sprintf("Failed to fetch transcript: %v", err)
	}

	transcript, err := ParseTimedText([]byte(captionXML))
	if err != nil {
		return "Transcript extraction failed"
	}

	n.Success("Transcript fetched successfully!")
	n.Message("Transcript has been fetched!\n\n")
	return fmt.Sprintf("Here's the transcript: %s", transcript)
}

// fetchWatchPage fetches the public watch page, with the Chrome TLS
// fingerprint client when one is configured.
func (y *YouTube) fetchWatchPage(ctx context.Context, pageURL string) (string, error) {
	if y.cfg.Browser != nil {
		data, status, err := y.cfg.Browser.Get(pageURL)
		if err != nil {
			return "", err
		}
		if status != http.StatusOK {
			return "", fmt.Errorf("HTTP %d", status)
		}
		return string(data), nil
	}
	return y.get(ctx, pageURL, engine.RandomUserAgent())
}

func (y *YouTube) get(ctx context.Context, rawURL, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := y.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := engine.ReadResponseBody(resp)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
