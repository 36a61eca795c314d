package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Citation vocabulary: class substrings, id substrings, and tag names
// removed outright by StripCitations.
var (
	citationClasses = []string{"citation", "reference", "cite", "reflist", "references"}
	citationIDs     = []string{"cite", "ref"}
)

const citationTags = "cite, sup, span"

// parseFragment parses s as body content without injecting an
// html/head/body wrapper, so fragments round-trip as fragments.
func parseFragment(s string) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

// renderFragment serializes the children of root back to a string.
func renderFragment(root *html.Node) (string, error) {
	var sb strings.Builder
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&sb, n); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func containsAny(s string, subs []string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// StripCitations removes citation and reference elements from HTML
// content and unwraps links, keeping their text. Operates on a copy of
// the parsed tree and returns a new string.
//
// Order matters: class-matched and tag-matched removal first, then
// anchor unwrapping, then id-matched removal, and empty list items last.
func StripCitations(content string) (string, error) {
	root, err := parseFragment(content)
	if err != nil {
		return "", err
	}
	doc := goquery.NewDocumentFromNode(root)

	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		if class, ok := s.Attr("class"); ok && containsAny(class, citationClasses) {
			s.Remove()
		}
	})

	doc.Find(citationTags).Remove()

	// Unwrap links: replace each <a> with its own text.
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			parent := n.Parent
			if parent == nil {
				continue
			}
			text := &html.Node{Type: html.TextNode, Data: s.Text()}
			parent.InsertBefore(text, n)
			parent.RemoveChild(n)
		}
	})

	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && containsAny(id, citationIDs) {
			s.Remove()
		}
	})

	// List items left with no visible text are dropped last.
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) == "" {
			s.Remove()
		}
	})

	return renderFragment(root)
}

// StripImages removes all image elements and all figure elements
// (figures wholesale, captions included). Returns a new string.
func StripImages(content string) (string, error) {
	root, err := parseFragment(content)
	if err != nil {
		return "", err
	}
	doc := goquery.NewDocumentFromNode(root)

	doc.Find("img").Remove()
	doc.Find("figure").Remove()

	return renderFragment(root)
}
