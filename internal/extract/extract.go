// Package extract turns loaded listing and detail pages into links and fields.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"go-jobpost-crawler/internal/models"
)

// Selectors is the landmark table for one careers site. Layout drift is fixed here,
// not in code.
type Selectors struct {
	// ListingLink matches every job-detail anchor on the listing page.
	ListingLink string `yaml:"listing_link"`
	// ListingTitle is looked up inside each anchor.
	ListingTitle string `yaml:"listing_title"`
	// DetailContainer wraps the headings scanned on a detail page.
	DetailContainer string `yaml:"detail_container"`
	DetailHeading   string `yaml:"detail_heading"`
}

// Validate rejects blank selectors and ones that do not compile. goquery silently
// matches nothing on a bad selector, so a typo here would look like an empty listing.
func (s Selectors) Validate() error {
	for _, sel := range []struct{ name, value string }{
		{"listing_link", s.ListingLink},
		{"listing_title", s.ListingTitle},
		{"detail_container", s.DetailContainer},
		{"detail_heading", s.DetailHeading},
	} {
		if strings.TrimSpace(sel.value) == "" {
			return fmt.Errorf("selector %s is empty", sel.name)
		}
		if _, err := cascadia.Compile(sel.value); err != nil {
			return fmt.Errorf("selector %s: %w", sel.name, err)
		}
	}
	return nil
}

func parse(page *models.Page) (*goquery.Document, error) {
	if page == nil {
		return nil, fmt.Errorf("nil page")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", page.URL, err)
	}
	return doc, nil
}

// Discoverer reads job links off a loaded listing page.
type Discoverer struct {
	sel Selectors
}

func NewDiscoverer(sel Selectors) *Discoverer {
	return &Discoverer{sel: sel}
}

// Discover returns one link per matching anchor in DOM order. Hrefs are resolved against
// the page URL. A missing title yields "", and no anchors yields an empty slice.
func (d *Discoverer) Discover(page *models.Page) ([]models.DiscoveredLink, error) {
	doc, err := parse(page)
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse(page.URL)

	links := make([]models.DiscoveredLink, 0)
	doc.Find(d.sel.ListingLink).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		links = append(links, models.DiscoveredLink{
			URL:   resolveHref(base, href),
			Title: CleanText(a.Find(d.sel.ListingTitle).First().Text()),
		})
	})
	return links, nil
}

func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// Extractor reads the detail fields off a loaded detail page.
type Extractor struct {
	sel   Selectors
	rules []Rule
}

func NewExtractor(sel Selectors, rules []Rule) *Extractor {
	return &Extractor{sel: sel, rules: rules}
}

// Extract scans the container's headings with the rule table. A missing container is not an
// error; the fields simply stay empty.
func (e *Extractor) Extract(page *models.Page) (models.DetailFields, error) {
	doc, err := parse(page)
	if err != nil {
		return models.DetailFields{}, err
	}

	var headings []string
	doc.Find(e.sel.DetailContainer).First().Find(e.sel.DetailHeading).Each(func(_ int, h *goquery.Selection) {
		headings = append(headings, h.Text())
	})
	return Classify(e.rules, headings), nil
}
