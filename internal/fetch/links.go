package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
)

// Link is an anchor found on a page.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// LinkMatcher decides whether an anchor is wanted.
type LinkMatcher func(text, href string) bool

// ContainsAll matches anchors whose text contains every term, case-insensitively.
func ContainsAll(terms ...string) LinkMatcher {
	return func(text, _ string) bool {
		lt := strings.ToLower(text)
		for _, term := range terms {
			if !strings.Contains(lt, strings.ToLower(term)) {
				return false
			}
		}
		return true
	}
}

// DiscoverLinks fetches pageURL and returns the absolute targets of the anchors
// accepted by match, in document order without duplicates. A nil matcher keeps all.
func (c *Client) DiscoverLinks(ctx context.Context, pageURL string, match LinkMatcher) ([]Link, error) {
	body, err := c.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ExtractLinks(body, pageURL, match)
}

// ExtractLinks parses an HTML document and resolves anchors against base.
func ExtractLinks(doc []byte, base string, match LinkMatcher) ([]Link, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	root, err := htmlquery.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	nodes, err := htmlquery.QueryAll(root, "//a[@href]")
	if err != nil {
		return nil, fmt.Errorf("query anchors: %w", err)
	}
	seen := map[string]bool{}
	var out []Link
	for _, n := range nodes {
		href := strings.TrimSpace(htmlquery.SelectAttr(n, "href"))
		text := strings.Join(strings.Fields(htmlquery.InnerText(n)), " ")
		if href == "" || (match != nil && !match(text, href)) {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		abs := baseURL.ResolveReference(ref).String()
		if seen[abs] {
			continue
		}
		seen[abs] = true
		out = append(out, Link{Text: text, URL: abs})
	}
	return out, nil
}
