// Package scrape walks the paginated result set of a dictionary query and
// collects accent records from every row.
package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/japaniel/pitchaccent/pkg/accent"
	"github.com/japaniel/pitchaccent/pkg/fetch"
	"github.com/japaniel/pitchaccent/pkg/markup"
)

// Fetcher downloads one URL. *fetch.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Category is one query: a result URL and the part of speech its rows carry.
type Category struct {
	Name         string
	URL          string
	PartOfSpeech string
}

// State is a step of a single category run.
type State int

const (
	StateInit State = iota
	StateFetchingFirstPage
	StateCountingPages
	StateIteratingPages
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateFetchingFirstPage:
		return "fetching_first_page"
	case StateCountingPages:
		return "counting_pages"
	case StateIteratingPages:
		return "iterating_pages"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultDelay is the pause between two page requests of one category.
const DefaultDelay = 500 * time.Millisecond

// Collector runs categories one page at a time.
type Collector struct {
	Fetcher    Fetcher
	Extractor  *accent.Extractor
	Pages      PageSelectors
	PageFormat string
	// Delay is the pause between the end of one response and the next
	// request within a category. The first request is never delayed.
	Delay time.Duration
	// Logger is used for progress and skip messages. nil means slog.Default().
	Logger *slog.Logger
	// OnState, when set, observes every state transition.
	OnState func(Category, State)
}

// NewCollector returns a Collector with the OJAD defaults.
func NewCollector(f Fetcher) *Collector {
	return &Collector{
		Fetcher:    f,
		Extractor:  accent.NewExtractor(),
		Pages:      DefaultPageSelectors,
		PageFormat: DefaultPageFormat,
		Delay:      DefaultDelay,
	}
}

func (c *Collector) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Result is the outcome of one category in CollectAll.
type Result struct {
	Category Category
	Records  []accent.WordRecord
	Pages    int
	Err      error
}

// Collect returns the records of every page of cat in page and row order.
// A failed page download aborts the category with a *fetch.FetchError and
// no records.
func (c *Collector) Collect(ctx context.Context, cat Category) ([]accent.WordRecord, error) {
	records, _, err := c.collect(ctx, cat)
	return records, err
}

// CollectAll runs cats sequentially. A failure only affects its own Result.
func (c *Collector) CollectAll(ctx context.Context, cats []Category) []Result {
	results := make([]Result, 0, len(cats))
	for _, cat := range cats {
		records, pages, err := c.collect(ctx, cat)
		if err != nil {
			c.logger().ErrorContext(ctx, "category failed", "category", cat.Name, "err", err)
		}
		results = append(results, Result{Category: cat, Records: records, Pages: pages, Err: err})
	}
	return results
}

func (c *Collector) transition(cat Category, s State) {
	c.logger().Debug("collector state", "category", cat.Name, "state", s.String())
	if c.OnState != nil {
		c.OnState(cat, s)
	}
}

func (c *Collector) collect(ctx context.Context, cat Category) (records []accent.WordRecord, pages int, err error) {
	c.transition(cat, StateInit)
	defer func() {
		if err != nil {
			records = nil
			c.transition(cat, StateFailed)
			return
		}
		c.transition(cat, StateDone)
	}()

	extractor := c.Extractor
	if extractor == nil {
		extractor = accent.NewExtractor()
	}
	pace := &pacer{delay: c.Delay}

	c.transition(cat, StateFetchingFirstPage)
	first, err := c.fetchDocument(ctx, pace, cat.URL)
	if err != nil {
		return nil, 0, err
	}

	c.transition(cat, StateCountingPages)
	pages = CountPages(first, c.Pages)
	c.logger().InfoContext(ctx, "collecting category", "category", cat.Name, "pages", pages)

	c.transition(cat, StateIteratingPages)
	for page := 1; page <= pages; page++ {
		doc := first
		if page > 1 {
			url := PageURL(c.PageFormat, cat.URL, page)
			doc, err = c.fetchDocument(ctx, pace, url)
			if err != nil {
				return nil, pages, err
			}
		}

		rows := doc.Find(c.Pages.Rows)
		if rows.Length() == 0 {
			c.logger().WarnContext(ctx, "no result rows on page", "category", cat.Name, "page", page)
			continue
		}

		before := len(records)
		for _, n := range rows.Nodes {
			row, convErr := markup.Element(n)
			if convErr != nil {
				continue
			}
			records = append(records, extractor.Extract(row, cat.PartOfSpeech)...)
		}
		c.logger().DebugContext(ctx, "page collected",
			"category", cat.Name, "page", page, "rows", rows.Length(), "records", len(records)-before)
	}
	return records, pages, nil
}

func (c *Collector) fetchDocument(ctx context.Context, pace *pacer, url string) (*goquery.Document, error) {
	if err := pace.wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting to fetch %s: %w", url, err)
	}
	body, err := c.Fetcher.Fetch(ctx, url)
	pace.done()
	if err != nil {
		var fe *fetch.FetchError
		if !errors.As(err, &fe) {
			err = &fetch.FetchError{URL: url, Err: err}
		}
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// pacer holds each request back until delay has passed since the previous
// response ended. The first request is not delayed.
type pacer struct {
	delay time.Duration
	next  *rate.Limiter
}

func (p *pacer) wait(ctx context.Context) error {
	if p.next == nil {
		return nil
	}
	return p.next.Wait(ctx)
}

// done starts the pause. The fresh limiter's only token is taken right away,
// so the next wait blocks for a full delay. rate.Every(0) is rate.Inf, which
// never blocks.
func (p *pacer) done() {
	next := rate.NewLimiter(rate.Every(p.delay), 1)
	next.Allow()
	p.next = next
}
