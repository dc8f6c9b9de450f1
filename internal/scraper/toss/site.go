package toss

import (
	"go-jobpost-crawler/internal/extract"
	"go-jobpost-crawler/internal/normalize"
	"go-jobpost-crawler/internal/scraper"
)

const (
	ListingURL            = "https://toss.im/career/jobs"
	CompanyName           = "비바리퍼블리카 / 토스 (Viva Republica / Toss)"
	DefaultCompanyDetail  = "토스"
	DefaultEmploymentType = "정규직"
)

// Site returns the landmark table for toss.im/career.
// The detail container class is generated by the site's CSS-in-JS and changes on redeploys.
func Site() scraper.Site {
	return scraper.Site{
		Name:       "toss",
		ListingURL: ListingURL,
		Source: normalize.Source{
			CompanyName:           CompanyName,
			DefaultCompanyDetail:  DefaultCompanyDetail,
			DefaultEmploymentType: DefaultEmploymentType,
		},
		Selectors: extract.Selectors{
			ListingLink:     `a[href*="/career/job-detail"]`,
			ListingTitle:    `[data-desktop-list-item-title]`,
			DetailContainer: `.css-1kbe2mo`,
			DetailHeading:   `h5`,
		},
		Rules: []extract.Rule{
			// "소속" = affiliation, e.g. "토스뱅크 소속"
			{Field: extract.FieldCompanyNameDetail, Contains: []string{"소속"}, StripMarkers: true},
			{Field: extract.FieldEmploymentType, Contains: []string{"직", "계약", "정규"}},
		},
	}
}
