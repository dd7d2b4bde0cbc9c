package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// maxResponseSize caps the bytes read from any platform response.
const maxResponseSize = 10 << 20

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: timeout,
		},
	}
}

// session is the shared HTTP state of one connector.
type session struct {
	client    *http.Client
	userAgent string
}

func (s *session) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", accept)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return resp, nil
}

// document fetches a page and parses it into a goquery document.
func (s *session) document(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := s.get(ctx, url, "text/html")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// getJSON fetches a JSON endpoint and decodes the body into v.
func (s *session) getJSON(ctx context.Context, url string, v any) error {
	resp, err := s.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

var priceRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parsePrice extracts the first numeric amount from a text fragment such as
// "$3.49" or "USD 12".
func parsePrice(text string) (decimal.Decimal, error) {
	match := priceRe.FindString(strings.ReplaceAll(text, ",", ""))
	if match == "" {
		return decimal.Decimal{}, fmt.Errorf("no price in %q", text)
	}
	price, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse price %q: %w", match, err)
	}
	return price, nil
}
