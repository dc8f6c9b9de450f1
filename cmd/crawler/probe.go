package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go-jobpost-crawler/internal/extract"
	"go-jobpost-crawler/internal/normalize"
)

func newProbeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check the site selectors against the live pages without saving anything",
		Long: `Loads the listing page, prints every discovered job link, then opens the first
--details postings and prints the record each would produce.

Example:
  crawler probe --details 2`,
		RunE: runProbe,
	}
	cmd.Flags().IntP("details", "n", 1, "number of detail pages to extract")
	return cmd
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	details, _ := cmd.Flags().GetInt("details")

	appLog, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = appLog.Sync() }()

	session, err := startBrowser(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	nav := newNavigator(cfg, session, appLog)

	page, err := nav.Navigate(ctx, cfg.Site.ListingURL)
	if err != nil {
		return err
	}
	if cfg.Crawl.ScrollListing {
		if scrolled, err := nav.ScrollAndSnapshot(ctx); err == nil {
			page = scrolled
		}
	}

	links, err := extract.NewDiscoverer(cfg.Site.Selectors).Discover(page)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "📋 %d links on %s\n", len(links), cfg.Site.ListingURL)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, l := range links {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, l.Title, l.URL)
	}
	_ = w.Flush()

	ext := extract.NewExtractor(cfg.Site.Selectors, cfg.Site.Rules)
	for i, link := range links {
		if i >= details {
			break
		}
		detail, err := nav.Navigate(ctx, link.URL)
		if err != nil {
			fmt.Fprintf(out, "⚠️ %s: %v\n", link.URL, err)
			continue
		}
		fields, err := ext.Extract(detail)
		if err != nil {
			fmt.Fprintf(out, "⚠️ %s: %v\n", link.URL, err)
			continue
		}
		fmt.Fprintf(out, "\n📄 %s\n   extracted: company_name_detail=%q employment_type=%q\n", link.URL, fields.CompanyNameDetail, fields.EmploymentType)
		rec, err := normalize.Normalize(link, fields, cfg.Site.Source)
		if err != nil {
			fmt.Fprintf(out, "   rejected: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "   record: %+v\n", rec)
	}
	return nil
}
