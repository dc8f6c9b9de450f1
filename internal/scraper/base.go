// Describes a careers site the crawler knows how to read.
// Everything site-specific lives in one Site value so layout drift is a data change.

package scraper

import (
	"fmt"
	"net/url"

	"go-jobpost-crawler/internal/extract"
	"go-jobpost-crawler/internal/normalize"
)

type Site struct {
	Name       string            `yaml:"name"`
	ListingURL string            `yaml:"listing_url"`
	Source     normalize.Source  `yaml:"source"`
	Selectors  extract.Selectors `yaml:"selectors"`
	Rules      []extract.Rule    `yaml:"rules"`
}

// Validate checks the site table before any navigation happens.
func (s Site) Validate() error {
	u, err := url.Parse(s.ListingURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("site %s: listing_url %q is not an absolute http(s) url", s.Name, s.ListingURL)
	}
	if s.Source.CompanyName == "" {
		return fmt.Errorf("site %s: source.company_name is required", s.Name)
	}
	if s.Source.DefaultCompanyDetail == "" || s.Source.DefaultEmploymentType == "" {
		return fmt.Errorf("site %s: source defaults are required", s.Name)
	}
	if err := s.Selectors.Validate(); err != nil {
		return fmt.Errorf("site %s: %w", s.Name, err)
	}
	if len(s.Rules) == 0 {
		return fmt.Errorf("site %s: at least one heading rule is required", s.Name)
	}
	for i, r := range s.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("site %s: rule %d: %w", s.Name, i, err)
		}
	}
	return nil
}
