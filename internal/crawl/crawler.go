// Package crawl sequences one crawl run: discover links, visit each detail page,
// normalize, and persist the batch once.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"go-jobpost-crawler/internal/database"
	"go-jobpost-crawler/internal/logger"
	"go-jobpost-crawler/internal/models"
	"go-jobpost-crawler/internal/normalize"
)

// Navigator loads a URL and returns the page once the network settled.
type Navigator interface {
	Navigate(ctx context.Context, url string) (*models.Page, error)
}

// Scroller is implemented by navigators that can render lazy-loaded content on the
// current page and snapshot it again.
type Scroller interface {
	ScrollAndSnapshot(ctx context.Context) (*models.Page, error)
}

type Discoverer interface {
	Discover(page *models.Page) ([]models.DiscoveredLink, error)
}

type Extractor interface {
	Extract(page *models.Page) (models.DetailFields, error)
}

type Options struct {
	ListingURL string
	Source     normalize.Source
	// MaxItems caps the detail pages visited per run.
	MaxItems  int
	ItemDelay time.Duration
	// NavigationRetries is the number of extra attempts after a retryable failure.
	NavigationRetries int
	ScrollListing     bool
}

// ErrDiscovery wraps a failure to load or read the listing page.
var ErrDiscovery = errors.New("discovery failed")

type Crawler struct {
	nav   Navigator
	disc  Discoverer
	ext   Extractor
	store database.Persister
	opts  Options
	log   logger.Logger

	sleep      func(ctx context.Context, d time.Duration)
	newBackOff func() backoff.BackOff
	now        func() time.Time
}

func New(nav Navigator, disc Discoverer, ext Extractor, store database.Persister, opts Options, log logger.Logger) *Crawler {
	return &Crawler{
		nav:        nav,
		disc:       disc,
		ext:        ext,
		store:      store,
		opts:       opts,
		log:        log,
		sleep:      sleepContext,
		newBackOff: defaultBackOff,
		now:        time.Now,
	}
}

func defaultBackOff() backoff.BackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(2*time.Second),
		backoff.WithMaxInterval(10*time.Second),
		backoff.WithMaxElapsedTime(time.Minute),
	)
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Run executes one crawl pass. It never returns early on a per-item problem; only a failed
// listing load or a store rejection ends in StateFailed.
func (c *Crawler) Run(ctx context.Context) Result {
	res := Result{State: StateStart, StartedAt: c.now()}
	c.log.Info("🚀 Starting crawl", logger.String("listing_url", c.opts.ListingURL), logger.Int("max_items", c.opts.MaxItems))

	res.State = StateDiscovering
	links, err := c.discover(ctx)
	if err != nil {
		return c.fail(res, fmt.Errorf("%w: %w", ErrDiscovery, err))
	}
	res.Discovered = len(links)
	c.log.Info("📋 Job links discovered", logger.Int("count", len(links)))

	if c.opts.MaxItems > 0 && len(links) > c.opts.MaxItems {
		c.log.Info("✂️ Capping items for this run", logger.Int("cap", c.opts.MaxItems), logger.Int("dropped", len(links)-c.opts.MaxItems))
		links = links[:c.opts.MaxItems]
	}

	res.State = StateExtracting
	for i, link := range links {
		if i > 0 && c.opts.ItemDelay > 0 {
			c.sleep(ctx, c.opts.ItemDelay)
		}
		res.Attempted++
		c.log.Info(fmt.Sprintf("📄 %d/%d: %s", i+1, len(links), link.Title), logger.String("url", link.URL))

		rec, skip := c.processItem(ctx, link)
		if skip != nil {
			c.log.Warn("⚠️ Skipping item",
				logger.String("url", skip.URL),
				logger.String("reason", string(skip.Reason)),
				logger.Err(skip.Err))
			res.Skipped = append(res.Skipped, *skip)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	c.log.Info("✅ Extraction finished",
		logger.Int("attempted", res.Attempted),
		logger.Int("collected", len(res.Records)),
		logger.Int("skipped", len(res.Skipped)))

	res.State = StatePersisting
	inserted, err := c.store.Persist(ctx, res.Records)
	if err != nil {
		return c.fail(res, err)
	}
	res.Inserted = inserted
	res.State = StateDone
	res.FinishedAt = c.now()
	c.log.Info("🎉 Job posts saved", logger.Int("inserted", inserted), logger.Int("batch", len(res.Records)))
	return res
}

func (c *Crawler) fail(res Result, err error) Result {
	res.State = StateFailed
	res.Err = err
	res.FinishedAt = c.now()
	c.log.Error("💥 Crawl failed", logger.Err(err))
	return res
}

func (c *Crawler) discover(ctx context.Context) ([]models.DiscoveredLink, error) {
	page, err := c.navigate(ctx, c.opts.ListingURL)
	if err != nil {
		return nil, err
	}

	if scroller, ok := c.nav.(Scroller); ok && c.opts.ScrollListing {
		scrolled, err := scroller.ScrollAndSnapshot(ctx)
		if err != nil {
			c.log.Warn("⚠️ Listing scroll failed, using first snapshot", logger.Err(err))
		} else {
			page = scrolled
		}
	}

	var links []models.DiscoveredLink
	err = guard(func() error {
		var derr error
		links, derr = c.disc.Discover(page)
		return derr
	})
	return links, err
}

func (c *Crawler) processItem(ctx context.Context, link models.DiscoveredLink) (models.JobPosting, *Skip) {
	skip := func(reason SkipReason, err error) *Skip {
		return &Skip{URL: link.URL, Title: link.Title, Reason: reason, Err: err}
	}

	page, err := c.navigate(ctx, link.URL)
	if err != nil {
		return models.JobPosting{}, skip(SkipNavigation, err)
	}

	var fields models.DetailFields
	if err := guard(func() error {
		var eerr error
		fields, eerr = c.ext.Extract(page)
		return eerr
	}); err != nil {
		return models.JobPosting{}, skip(SkipExtraction, err)
	}

	rec, err := normalize.Normalize(link, fields, c.opts.Source)
	if err != nil {
		return models.JobPosting{}, skip(SkipValidation, err)
	}
	return rec, nil
}

type retryable interface {
	Retryable() bool
}

// navigate retries retryable failures with exponential backoff; anything else fails fast.
func (c *Crawler) navigate(ctx context.Context, url string) (*models.Page, error) {
	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.opts.NavigationRetries)), ctx)

	return backoff.RetryNotifyWithData(func() (*models.Page, error) {
		page, err := c.nav.Navigate(ctx, url)
		if err == nil {
			return page, nil
		}
		var r retryable
		if errors.As(err, &r) && r.Retryable() {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}, b, func(err error, wait time.Duration) {
		c.log.Warn("🔁 Navigation failed, retrying", logger.String("url", url), logger.Duration("wait", wait), logger.Err(err))
	})
}

// guard turns a panic inside a parser into a per-item error.
func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("recovered: %v", p)
		}
	}()
	return fn()
}
