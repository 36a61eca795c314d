package engine

// --- Tool inputs ---

type ScrapeWebsiteInput struct {
	URL     string   `json:"url" jsonschema:"URL of the page to scrape"`
	Formats []string `json:"formats,omitempty" jsonschema:"Content formats to request (default: configured format)"`
}

type CrawlWebsiteInput struct {
	URL      string   `json:"url" jsonschema:"Seed URL of the website to crawl"`
	Limit    int      `json:"limit,omitempty" jsonschema:"Max number of pages to crawl (default: configured limit)"`
	MaxDepth int      `json:"max_depth,omitempty" jsonschema:"Maximum crawl depth for nested pages (default: configured depth)"`
	Formats  []string `json:"formats,omitempty" jsonschema:"Content formats to request per page (default: configured format)"`
}

type TranscriptInput struct {
	VideoURL string `json:"video_url" jsonschema:"URL of the YouTube video"`
}

// --- Tool outputs ---

// PageResult is one normalized record per fetched page. URL is never
// empty on a successful record; Content is the empty string rather than
// absent when no body format matched; Errors serializes as [].
type PageResult struct {
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Errors  []string `json:"errors"`
}

type ScrapeWebsiteOutput struct {
	Results []PageResult `json:"results"`
}

type CrawlWebsiteOutput struct {
	Results []PageResult `json:"results"`
}

type TranscriptOutput struct {
	Transcript string `json:"transcript"`
}

// --- Crawl API types (used by sources.Firecrawl) ---

// JobStatus is the lifecycle of an asynchronous crawl job. Any
// non-terminal remote status maps to JobPending.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether the job needs no further polling.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// CrawlJob is the transient handle for one crawl call. Data is populated
// only once Status is JobCompleted; Error carries the remote failure
// reason, when the API reports one, for failed jobs.
type CrawlJob struct {
	ID     string
	Status JobStatus
	Data   []Document
	Error  string
}

// Document is one page as returned by the crawl API. HTML and Markdown
// are pointers because the content-selection policy distinguishes a key
// that is present (even empty) from one that is absent.
type Document struct {
	HTML     *string      `json:"html"`
	Markdown *string      `json:"markdown"`
	Metadata *DocMetadata `json:"metadata"`
}

// DocMetadata is the per-page metadata block. Title is a pointer for the
// same key-presence reason: a metadata block without a title key is a
// malformed document, not an empty title.
type DocMetadata struct {
	Title     *string `json:"title"`
	SourceURL string  `json:"sourceURL"`
}
