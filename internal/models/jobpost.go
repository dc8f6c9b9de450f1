package models

// JobPosting is one row of the JobPost table as written by the crawler.
// Columns the crawler does not populate (categories, location, deadline, ...)
// are left to the store's defaults.
type JobPosting struct {
	CompanyName       string `json:"company_name"`
	CompanyNameDetail string `json:"company_name_detail"`
	JobTitle          string `json:"job_title"`
	JobURL            string `json:"job_url"`
	Position          string `json:"position"`
	EmploymentType    string `json:"employment_type"`
}

// DiscoveredLink is a detail page found on the listing page. It lives for one crawl pass.
type DiscoveredLink struct {
	URL   string
	Title string
}

// DetailFields holds what the detail page yielded. Empty means "not found".
type DetailFields struct {
	CompanyNameDetail string
	EmploymentType    string
}

// Page is a snapshot of a loaded page taken once the network settled.
type Page struct {
	URL  string
	HTML string
}
