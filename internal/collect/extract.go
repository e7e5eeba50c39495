package collect

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/types"
)

// buildSearchURL applies configured search parameters to a listing URL.
func buildSearchURL(raw string, params map[string]string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse source URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("source URL %q must have scheme and host", raw)
	}

	if len(params) > 0 {
		q := u.Query()
		for key, value := range params {
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// parseListing pulls one raw record per list item and resolves the
// next-page link, if the selector set names one.
func parseListing(html string, sel config.SelectorSet, pageURL string) ([]types.RawRecord, string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	records := make([]types.RawRecord, 0)
	doc.Find(sel.List).Each(func(_ int, item *goquery.Selection) {
		records = append(records, extractRecord(item, sel, base))
	})

	next := ""
	if sel.NextPage != "" {
		if href := hrefOf(doc.Selection, sel.NextPage); href != "" {
			next = resolveRef(base, href)
		}
	}

	return records, next, nil
}

// extractRecord reads the configured fields out of one list item.
// Optional fields are only set when their selector matched something;
// normalization fills in the sentinels later.
func extractRecord(item *goquery.Selection, sel config.SelectorSet, base *url.URL) types.RawRecord {
	rec := types.RawRecord{}

	if title := textOf(item, sel.Title); title != "" {
		rec[types.FieldTitle] = title
	}
	if href := hrefOf(item, sel.URL); href != "" {
		rec[types.FieldURL] = resolveRef(base, href)
	}

	optional := []struct {
		field    string
		selector string
	}{
		{types.FieldCompany, sel.Company},
		{types.FieldLocation, sel.Location},
		{types.FieldDescription, sel.Description},
		{types.FieldLevel, sel.Level},
		{types.FieldSalary, sel.Salary},
		{types.FieldEmploymentType, sel.EmploymentType},
		{types.FieldPostedDate, sel.PostedDate},
	}
	for _, opt := range optional {
		if opt.selector == "" {
			continue
		}
		if value := textOf(item, opt.selector); value != "" {
			rec[opt.field] = value
		}
	}

	return rec
}

func textOf(item *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(item.Find(selector).First().Text())
}

// hrefOf finds the link target under selector. When the list item itself
// is the anchor, Find cannot reach it, so fall back to the item.
func hrefOf(item *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}

	node := item.Find(selector).First()
	if node.Length() == 0 && item.Is(selector) {
		node = item.First()
	}

	if href, ok := node.Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	if href, ok := node.Find("a[href]").First().Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	return ""
}

func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
