package scrape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageSelectors locate page-level structure in a result document.
type PageSelectors struct {
	Paginator string // region listing page links
	PageLinks string // links inside the paginator
	Rows      string // result rows
}

var DefaultPageSelectors = PageSelectors{
	Paginator: "#paginator",
	PageLinks: "a",
	Rows:      "#word_table tbody tr",
}

// CountPages returns the number of result pages advertised by the
// paginator: the largest numeric link text. Documents without a paginator,
// or whose links are all non-numeric, have one page.
func CountPages(doc *goquery.Document, sel PageSelectors) int {
	paginator := doc.Find(sel.Paginator)
	if paginator.Length() == 0 {
		return 1
	}
	total := 1
	paginator.Find(sel.PageLinks).Each(func(_ int, a *goquery.Selection) {
		n, err := strconv.ParseUint(strings.TrimSpace(a.Text()), 10, 31)
		if err != nil {
			return
		}
		total = max(total, int(n))
	})
	return total
}

// DefaultPageFormat appends the OJAD page path segment to a query URL.
const DefaultPageFormat = "%s/page:%d"

// PageURL builds the URL of page n of a query. Page 1 is the query URL itself.
func PageURL(format, base string, n int) string {
	if n <= 1 {
		return base
	}
	if format == "" {
		format = DefaultPageFormat
	}
	return fmt.Sprintf(format, strings.TrimRight(base, "/"), n)
}
