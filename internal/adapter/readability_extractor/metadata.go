package readability_extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mrmps/SMRY-sub004/pkg/utils"
)

// pageMetadata holds facts read from document markup, independent of the
// readability heuristic.
type pageMetadata struct {
	docTitle      string
	lang          string
	author        string
	publishedTime string
	image         string
}

var publishedSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[name="article:published_time"]`, "content"},
	{`meta[itemprop="datePublished"]`, "content"},
	{`meta[name="pubdate"]`, "content"},
	{`meta[name="publish-date"]`, "content"},
	{`meta[name="date"]`, "content"},
	{`meta[name="dc.date"]`, "content"},
	{`time[datetime]`, "datetime"},
}

var imageSelectors = []string{
	`meta[property="og:image"]`,
	`meta[property="og:image:url"]`,
	`meta[name="twitter:image"]`,
	`meta[name="twitter:image:src"]`,
	`link[rel="image_src"]`,
}

func readMetadata(doc *goquery.Document, base *url.URL) pageMetadata {
	var m pageMetadata
	m.docTitle = strings.TrimSpace(doc.Find("head title").First().Text())
	if m.docTitle == "" {
		m.docTitle = strings.TrimSpace(doc.Find("title").First().Text())
	}

	htmlEl := doc.Find("html").First()
	if lang, ok := htmlEl.Attr("lang"); ok && strings.TrimSpace(lang) != "" {
		m.lang = strings.TrimSpace(lang)
	} else if lang, ok := htmlEl.Attr("xml:lang"); ok {
		m.lang = strings.TrimSpace(lang)
	}

	m.author = firstAttr(doc, []string{`meta[name="author"]`, `meta[property="article:author"]`}, "content")

	for _, s := range publishedSelectors {
		if v := firstAttr(doc, []string{s.selector}, s.attr); v != "" {
			m.publishedTime = v
			break
		}
	}

	for _, sel := range imageSelectors {
		attr := "content"
		if strings.HasPrefix(sel, "link") {
			attr = "href"
		}
		raw := firstAttr(doc, []string{sel}, attr)
		if raw == "" {
			continue
		}
		abs, err := utils.ToAbsoluteURL(base, raw)
		if err != nil {
			continue
		}
		if u, err := url.Parse(abs); err == nil && u.IsAbs() && u.Host != "" {
			m.image = abs
			break
		}
	}
	return m
}

func firstAttr(doc *goquery.Document, selectors []string, attr string) string {
	for _, sel := range selectors {
		v, ok := doc.Find(sel).First().Attr(attr)
		if v = strings.TrimSpace(v); ok && v != "" {
			return v
		}
	}
	return ""
}
