// Package scrape reads static content out of a live session with goquery,
// for the flows that only want to look at the page rather than drive it.
package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// Handle is the slice of the session the extractors need.
// *session.Session satisfies it.
type Handle interface {
	Context() context.Context
}

// Link is an anchor extracted from the page.
type Link struct {
	Text string
	Href string
}

// PageHTML returns the serialized document of the session's current page.
func PageHTML(s Handle) (string, error) {
	var html string
	if err := chromedp.Run(s.Context(), chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("error reading page HTML: %w", err)
	}
	return html, nil
}

// Title returns the current page title.
func Title(s Handle) (string, error) {
	var title string
	if err := chromedp.Run(s.Context(), chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("error reading page title: %w", err)
	}
	return title, nil
}

// Document parses the current page into a goquery document.
func Document(s Handle) (*goquery.Document, error) {
	html, err := PageHTML(s)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("error parsing page HTML: %w", err)
	}
	return doc, nil
}

// Texts returns the trimmed text of every node matching selector.
func Texts(s Handle, selector string) ([]string, error) {
	doc, err := Document(s)
	if err != nil {
		return nil, err
	}
	texts := textsFromDoc(doc, selector)
	log.Debugf("Extracted %d text node(s) for selector '%s'", len(texts), selector)
	return texts, nil
}

// Links returns every anchor on the page that carries an href.
func Links(s Handle) ([]Link, error) {
	doc, err := Document(s)
	if err != nil {
		return nil, err
	}
	links := linksFromDoc(doc)
	log.Debugf("Extracted %d link(s)", len(links))
	return links, nil
}

func textsFromDoc(doc *goquery.Document, selector string) []string {
	var texts []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}

func linksFromDoc(doc *goquery.Document) []Link {
	var links []Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		links = append(links, Link{
			Text: strings.TrimSpace(sel.Text()),
			Href: href,
		})
	})
	return links
}
