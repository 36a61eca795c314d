package engine

import (
	"errors"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// BuildResult normalizes one crawl API document into a PageResult.
//
// Content selection: an "html" key present in the document wins (cleaned
// when CleanContent is set), else "markdown" is taken verbatim, else the
// content is the empty string. A missing metadata block, source URL, or
// title key is a fault — the caller decides whether that fails the whole
// call.
func BuildResult(doc Document, cfg Config) (PageResult, error) {
	var content string
	switch {
	case doc.HTML != nil:
		content = *doc.HTML
		if cfg.CleanContent {
			cleaned, err := StripCitations(content)
			if err != nil {
				return PageResult{}, fmt.Errorf("strip citations: %w", err)
			}
			cleaned, err = StripImages(cleaned)
			if err != nil {
				return PageResult{}, fmt.Errorf("strip images: %w", err)
			}
			content = cleaned
		}
		if cfg.ConvertMarkdown {
			if md, err := htmltomarkdown.ConvertString(content); err == nil {
				content = md
			}
		}
	case doc.Markdown != nil:
		content = *doc.Markdown
	}

	if doc.Metadata == nil {
		return PageResult{}, errors.New("document missing metadata")
	}
	if doc.Metadata.SourceURL == "" {
		return PageResult{}, errors.New("document metadata missing sourceURL")
	}
	if doc.Metadata.Title == nil {
		return PageResult{}, errors.New("document metadata missing title")
	}

	return PageResult{
		URL:     doc.Metadata.SourceURL,
		Title:   *doc.Metadata.Title,
		Content: content,
		Errors:  []string{},
	}, nil
}
