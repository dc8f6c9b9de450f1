// Package normalize maps raw extraction output onto the JobPost record shape.
package normalize

import (
	"errors"
	"net/url"
	"strings"

	"go-jobpost-crawler/internal/models"
)

// Rejections. A rejected link is dropped, never persisted.
var (
	ErrEmptyTitle = errors.New("empty job title")
	ErrEmptyURL   = errors.New("empty job url")
	ErrInvalidURL = errors.New("job url is not an absolute http(s) url")
)

// Source holds the per-site constants stamped onto every record.
type Source struct {
	CompanyName           string `yaml:"company_name"`
	DefaultCompanyDetail  string `yaml:"default_company_detail"`
	DefaultEmploymentType string `yaml:"default_employment_type"`
}

// IsRejection reports whether err is one of the validation rejections above.
func IsRejection(err error) bool {
	return errors.Is(err, ErrEmptyTitle) || errors.Is(err, ErrEmptyURL) || errors.Is(err, ErrInvalidURL)
}

// Normalize builds the record for one link. Position is left empty: the source has no
// job taxonomy and consumers read "" as uncategorized.
func Normalize(link models.DiscoveredLink, fields models.DetailFields, src Source) (models.JobPosting, error) {
	title := strings.TrimSpace(link.Title)
	jobURL := strings.TrimSpace(link.URL)

	if title == "" {
		return models.JobPosting{}, ErrEmptyTitle
	}
	if jobURL == "" {
		return models.JobPosting{}, ErrEmptyURL
	}
	if !isAbsoluteHTTP(jobURL) {
		return models.JobPosting{}, ErrInvalidURL
	}

	return models.JobPosting{
		CompanyName:       src.CompanyName,
		CompanyNameDetail: withDefault(fields.CompanyNameDetail, src.DefaultCompanyDetail),
		JobTitle:          title,
		JobURL:            jobURL,
		Position:          "",
		EmploymentType:    withDefault(fields.EmploymentType, src.DefaultEmploymentType),
	}, nil
}

func withDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func isAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
