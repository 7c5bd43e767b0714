package api_test

import (
	"net/http"

	"github.com/persistorai/recommender/internal/api"
	"github.com/persistorai/recommender/internal/httputil"
)

// routerOption adjusts the dependencies before the router is built.
type routerOption func(*api.RouterDeps)

func newRouter(opts ...routerOption) http.Handler {
	deps := &api.RouterDeps{
		Log:          testLogger(),
		Products:     shoeProducts(),
		Matcher:      &mockMatcher{},
		Recommender:  echoRecommender(),
		Prices:       &mockPrices{},
		Artifacts:    &mockArtifacts{loaded: true},
		CORSOrigins:  []string{"http://localhost:3000"},
		Version:      "test-v1",
		CatalogLimit: 2000,
		DefaultTopN:  10,
		MaxTopN:      100,
	}
	for _, opt := range opts {
		opt(deps)
	}

	return api.NewRouter(deps)
}

func withRecommender(r api.Recommender) routerOption {
	return func(d *api.RouterDeps) { d.Recommender = r }
}

func withMatcher(m api.Matcher) routerOption {
	return func(d *api.RouterDeps) { d.Matcher = m }
}

func withPrices(p api.PriceQuoter) routerOption {
	return func(d *api.RouterDeps) { d.Prices = p }
}

func withArtifacts(a api.ArtifactStatus) routerOption {
	return func(d *api.RouterDeps) { d.Artifacts = a }
}

func withProducts(p api.ProductQuerier) routerOption {
	return func(d *api.RouterDeps) { d.Products = p }
}

func withCatalogLimit(n int) routerOption {
	return func(d *api.RouterDeps) { d.CatalogLimit = n }
}

func withAllOrigins() routerOption {
	return func(d *api.RouterDeps) { d.CORSAllowAll = true }
}

type errorBody = httputil.ErrorBody
