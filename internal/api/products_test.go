package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/persistorai/recommender/internal/models"
)

func TestCatalog_CappedAtLimit(t *testing.T) {
	t.Parallel()

	w := doRequest(newRouter(withCatalogLimit(2)), "/meta/products")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var entries []models.CatalogEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(entries) != 2 || entries[0].ProductID != "P1" {
		t.Errorf("unexpected catalog: %+v", entries)
	}
}

func TestCatalog_EmptyIsArray(t *testing.T) {
	t.Parallel()

	products := &mockProducts{
		catalogFn: func(_ context.Context, _ int) ([]models.CatalogEntry, error) {
			return []models.CatalogEntry{}, nil
		},
	}

	w := doRequest(newRouter(withProducts(products)), "/meta/products")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %d %s", w.Code, w.Body.String())
	}
}

func TestProductGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantErr  string
	}{
		{name: "found", path: "/product/P1", wantCode: http.StatusOK},
		{name: "found under prefix", path: "/api/v1/product/P2", wantCode: http.StatusOK},
		{name: "unknown", path: "/product/P9", wantCode: http.StatusNotFound, wantErr: "not_found"},
		{name: "too long", path: "/product/" + strings.Repeat("x", 300), wantCode: http.StatusBadRequest, wantErr: "invalid_request"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(newRouter(), tc.path)
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, w.Code, w.Body.String())
			}

			if tc.wantErr != "" {
				var body errorBody
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if body.Code != tc.wantErr {
					t.Errorf("code = %q, want %q", body.Code, tc.wantErr)
				}
				if body.RequestID == "" {
					t.Error("expected request_id in error body")
				}
			}
		})
	}
}

func TestProductGet_LoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "deadline", err: context.DeadlineExceeded, wantCode: http.StatusServiceUnavailable},
		{name: "unexpected", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			products := &mockProducts{
				getFn: func(_ context.Context, _ string) (*models.Product, error) { return nil, tc.err },
			}

			w := doRequest(newRouter(withProducts(products)), "/product/P1")
			if w.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, w.Code)
			}
		})
	}
}

func TestLivePrice(t *testing.T) {
	t.Parallel()

	var asked string
	prices := &mockPrices{
		priceFn: func(_ context.Context, id string) (models.PriceQuote, error) {
			asked = id
			return models.PriceQuote{Status: models.PriceLive, Price: 1299}, nil
		},
	}

	w := doRequest(newRouter(withPrices(prices)), "/product/live_price/B07XYZ")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if asked != "B07XYZ" {
		t.Errorf("quoted %q, want B07XYZ", asked)
	}

	var quote models.PriceQuote
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if quote.Status != "live" || quote.Price != 1299 {
		t.Errorf("unexpected quote: %+v", quote)
	}
}
