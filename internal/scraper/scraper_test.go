package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/scraper"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{in: "1,299", want: 1299, ok: true},
		{in: " ₹1,299.00 ", want: 1299, ok: true},
		{in: "499.", want: 499, ok: true},
		{in: "", ok: false},
		{in: "Currently unavailable", ok: false},
		{in: "$12", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := scraper.ParsePrice(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Errorf("ParsePrice(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestScraper_Price(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   int64
		wantOK bool
	}{
		{
			name:   "whole price",
			status: http.StatusOK,
			body:   `<html><body><span class="a-price-whole">2,499.</span></body></html>`,
			want:   2499, wantOK: true,
		},
		{
			name:   "falls through selectors",
			status: http.StatusOK,
			body: `<html><body><span class="a-price-whole">See options</span>
				<div class="a-price"><span class="a-offscreen">₹799.00</span></div></body></html>`,
			want: 799, wantOK: true,
		},
		{
			name:   "deal price block",
			status: http.StatusOK,
			body:   `<html><body><span id="priceblock_dealprice">₹1,050.50</span></body></html>`,
			want:   1050, wantOK: true,
		},
		{
			name:   "no price on page",
			status: http.StatusOK,
			body:   `<html><body><p>Robot check</p></body></html>`,
		},
		{
			name:   "blocked",
			status: http.StatusServiceUnavailable,
			body:   "blocked",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotPath, gotUA string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotUA = r.Header.Get("User-Agent")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			s := scraper.New(srv.URL+"/dp/", time.Second, testLogger())
			price, ok := s.Price(context.Background(), "B07XYZ")
			if ok != tc.wantOK || price != tc.want {
				t.Errorf("Price = %d, %v; want %d, %v", price, ok, tc.want, tc.wantOK)
			}
			if gotPath != "/dp/B07XYZ" {
				t.Errorf("path = %q, want /dp/B07XYZ", gotPath)
			}
			if gotUA == "" {
				t.Error("expected a browser user agent")
			}
		})
	}
}

func TestScraper_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := scraper.New(srv.URL+"/", 20*time.Millisecond, testLogger())
	if _, ok := s.Price(context.Background(), "P1"); ok {
		t.Error("expected timeout to report no price")
	}
}

func TestScraper_Unreachable(t *testing.T) {
	s := scraper.New("http://127.0.0.1:1/", 100*time.Millisecond, testLogger())
	if _, ok := s.Price(context.Background(), "P1"); ok {
		t.Error("expected connection failure to report no price")
	}
}
