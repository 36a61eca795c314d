package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/signorecello/openwebui-extras/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch url", "https://www.youtube.com/watch?v=abcdefghijk", "abcdefghijk"},
		{"short url", "https://youtu.be/abcdefghijk", "abcdefghijk"},
		{"watch url with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"id with dash and underscore", "https://youtu.be/a-b_c1234De", "a-b_c1234De"},
		{"no video id", "https://www.youtube.com/feed/subscriptions", ""},
		{"not a youtube url", "https://example.com/page", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.url); got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractCaptionURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "unescapes u0026",
			in:   `"captionTracks":[{"baseUrl":"https://x/y\u0026z","languageCode":"en"}]`,
			want: "https://x/y&z",
		},
		{
			name: "takes first baseUrl",
			in:   `[{"baseUrl":"https://a"},{"baseUrl":"https://b"}]`,
			want: "https://a",
		},
		{
			name: "no baseUrl",
			in:   `[{"languageCode":"en"}]`,
			want: "",
		},
		{
			name: "unterminated value",
			in:   `{"baseUrl":"https://a`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCaptionURL(tt.in); got != tt.want {
				t.Errorf("ExtractCaptionURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTimedText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "unescapes entities",
			in:   `<transcript><text>It&#39;s &amp;</text></transcript>`,
			want: "It's &",
		},
		{
			name: "joins fragments with single spaces",
			in:   `<transcript><text start="0.0" dur="1.2">hello</text><text start="1.2" dur="0.8">world</text></transcript>`,
			want: "hello world",
		},
		{
			name: "double-escaped entities",
			in:   `<transcript><text>can&amp;#39;t</text></transcript>`,
			want: "can't",
		},
		{
			name:    "malformed xml",
			in:      `<transcript><text>`,
			wantErr: true,
		},
		{
			name:    "no text elements",
			in:      `<transcript></transcript>`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimedText([]byte(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimedText error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseTimedText() = %q, want %q", got, tt.want)
			}
		})
	}
}

// recordingSink captures notification events for flow assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []engine.Event
}

func (s *recordingSink) Emit(e engine.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) all() []engine.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]engine.Event(nil), s.events...)
}

func (s *recordingSink) count(status engine.Status) int {
	n := 0
	for _, e := range s.all() {
		if data, ok := e.Data.(engine.StatusData); ok && data.Status == status {
			n++
		}
	}
	return n
}

func ytTestClient(watchBase string) (*YouTube, *recordingSink, *engine.Notifier) {
	cfg := engine.Config{FetchTimeout: 2 * time.Second}.WithDefaults()
	sink := &recordingSink{}
	yt := &YouTube{cfg: cfg, watchBase: watchBase}
	return yt, sink, engine.NewNotifier(sink, true)
}

func TestFetchTranscript(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "abcdefghijk", r.URL.Query().Get("v"))
		page := `<html><script>var ytInitialPlayerResponse = {` +
			`"captionTracks":[{"baseUrl":"` + srv.URL + `/api/timedtext?v=abcdefghijk&lang=en","languageCode":"en"}]` +
			`};</script></html>`
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "en", r.URL.Query().Get("lang"))
		fmt.Fprint(w, `<transcript><text>It&#39;s</text><text>a test &amp; more</text></transcript>`)
	})

	yt, sink, n := ytTestClient(srv.URL + "/watch?v=")
	got := yt.FetchTranscript(context.Background(), "https://www.youtube.com/watch?v=abcdefghijk", n)

	assert.Equal(t, "Here's the transcript: It's a test & more", got)
	assert.Equal(t, 1, sink.count(engine.StatusSuccess))
	assert.Equal(t, 0, sink.count(engine.StatusError))

	// The secondary message event follows the success notification.
	events := sink.all()
	last := events[len(events)-1]
	require.Equal(t, "message", last.Type)
	assert.Equal(t, "Transcript has been fetched!\n\n", last.Data.(engine.MessageData).Content)
}

func TestFetchTranscriptInvalidURL(t *testing.T) {
	yt, sink, n := ytTestClient("http://127.0.0.1:0/watch?v=")
	got := yt.FetchTranscript(context.Background(), "https://example.com/nothing", n)
	assert.Equal(t, "Invalid YouTube URL", got)
	assert.Equal(t, 0, sink.count(engine.StatusError))
}

func TestFetchTranscriptNoCaptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>no captions here</html>`)
	}))
	defer srv.Close()

	yt, sink, n := ytTestClient(srv.URL + "/watch?v=")
	got := yt.FetchTranscript(context.Background(), "https://youtu.be/abcdefghijk", n)
	assert.Equal(t, "No captions found for video", got)
	assert.Equal(t, 1, sink.count(engine.StatusError))
}

func TestFetchTranscriptNoSuitableCaptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>"captionTracks":[{"languageCode":"en"}]</html>`)
	}))
	defer srv.Close()

	yt, _, n := ytTestClient(srv.URL + "/watch?v=")
	got := yt.FetchTranscript(context.Background(), "https://youtu.be/abcdefghijk", n)
	assert.Equal(t, "No suitable captions found", got)
}

func TestFetchTranscriptUnterminatedCaptionsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>"captionTracks":[{"baseUrl":"https://x"</html>`)
	}))
	defer srv.Close()

	yt, _, n := ytTestClient(srv.URL + "/watch?v=")
	got := yt.FetchTranscript(context.Background(), "https://youtu.be/abcdefghijk", n)
	assert.Equal(t, "Invalid captions data", got)
}

func TestFetchTranscriptPageFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	yt, sink, n := ytTestClient(srv.URL + "/watch?v=")
	got := yt.FetchTranscript(context.Background(), "https://youtu.be/abcdefghijk", n)
	assert.True(t, strings.HasPrefix(got, "Failed to fetch YouTube video page:"), got)
	assert.Equal(t, 1, sink.count(engine.StatusError))
}
