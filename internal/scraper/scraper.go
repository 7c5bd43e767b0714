// Package scraper fetches live product prices from the storefront. Lookups are
// best-effort: a single attempt with a timeout, no retries.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/metrics"
)

// DefaultBaseURL is the storefront product page prefix.
const DefaultBaseURL = "https://www.amazon.in/dp/"

// DefaultTimeout bounds a single price lookup.
const DefaultTimeout = 5 * time.Second

// maxPageBytes caps how much of a product page is parsed.
const maxPageBytes = 8 << 20

// priceSelectors are tried in order; the first element yielding digits wins.
var priceSelectors = []string{
	".a-price-whole",
	"#priceblock_ourprice",
	"#priceblock_dealprice",
	".a-price .a-offscreen",
}

// browserHeaders make the request look like a regular page view.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept-Language": "en-US,en;q=0.9",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Referer":         "https://www.amazon.in/",
}

var errNoPrice = errors.New("no price element found")

// Scraper looks up live prices.
type Scraper struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// New creates a Scraper. An empty baseURL uses DefaultBaseURL and a
// non-positive timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration, log *logrus.Logger) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Scraper{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Price returns the live price of a product as a whole number. The boolean is
// false when the page could not be fetched or no price was found.
func (s *Scraper) Price(ctx context.Context, productID string) (int64, bool) {
	price, err := s.fetch(ctx, productID)
	if err != nil {
		outcome := "error"
		if errors.Is(err, errNoPrice) {
			outcome = "no_price"
		}
		metrics.ScrapesTotal.WithLabelValues(outcome).Inc()
		s.log.WithError(err).WithField("product_id", productID).Warn("live price lookup failed")
		return 0, false
	}

	metrics.ScrapesTotal.WithLabelValues("ok").Inc()

	return price, true
}

func (s *Scraper) fetch(ctx context.Context, productID string) (int64, error) {
	reqURL := s.baseURL + url.PathEscape(productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("scraper: create request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("scraper: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return 0, fmt.Errorf("scraper: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return 0, fmt.Errorf("scraper: parse page: %w", err)
	}

	return extractPrice(doc)
}

// extractPrice reads the first selector whose element holds a whole-number price.
func extractPrice(doc *goquery.Document) (int64, error) {
	for _, sel := range priceSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}

		if price, ok := ParsePrice(el.Text()); ok {
			return price, nil
		}
	}

	return 0, errNoPrice
}

// priceReplacer strips currency marks and thousands separators.
var priceReplacer = strings.NewReplacer("₹", "", ",", "")

// ParsePrice converts displayed price text such as "₹1,299.00" to its integer
// part. Text that is not a plain number is rejected.
func ParsePrice(text string) (int64, bool) {
	s := priceReplacer.Replace(strings.TrimSpace(text))
	s, _, _ = strings.Cut(s, ".")

	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
