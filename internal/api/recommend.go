package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/models"
)

// RecommendHandler serves the recommendation endpoints.
type RecommendHandler struct {
	products    ProductQuerier
	matcher     Matcher
	recommender Recommender
	defaultTopN int
	maxTopN     int
	log         *logrus.Logger
}

// NewRecommendHandler creates a RecommendHandler. top_n defaults to defaultTopN
// and is clamped to maxTopN.
func NewRecommendHandler(products ProductQuerier, matcher Matcher, recommender Recommender, defaultTopN, maxTopN int, log *logrus.Logger) *RecommendHandler {
	return &RecommendHandler{
		products:    products,
		matcher:     matcher,
		recommender: recommender,
		defaultTopN: defaultTopN,
		maxTopN:     maxTopN,
		log:         log,
	}
}

// recommendResponse is the JSON payload of both recommendation endpoints.
// MatchScore is only set for name queries.
type recommendResponse struct {
	SeedProductID   string                  `json:"seed_product_id"`
	SeedProductName string                  `json:"seed_product_name"`
	MatchScore      *float64                `json:"match_score,omitempty"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// ByID handles GET /recommend/by_id?product_id=&top_n=.
func (h *RecommendHandler) ByID(c *gin.Context) {
	seedID := c.Query("product_id")
	if err := validatePathID(seedID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	topN, err := parseTopN(c, h.defaultTopN, h.maxTopN)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	seed, err := h.products.GetProduct(c.Request.Context(), seedID)
	if err != nil {
		respondServiceError(c, h.log, err, "seed product not found")
		return
	}

	h.respond(c, recommendResponse{SeedProductID: seed.ProductID, SeedProductName: seed.ProductName}, topN)
}

// ByName handles GET /recommend/by_name?q=&top_n=.
func (h *RecommendHandler) ByName(c *gin.Context) {
	q, ok := c.GetQuery("q")
	if !ok {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, models.ErrMissingQuery.Error())
		return
	}
	if len(q) > maxQueryLength {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, models.ErrFieldTooLong("q", maxQueryLength).Error())
		return
	}

	topN, err := parseTopN(c, h.defaultTopN, h.maxTopN)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	match, err := h.matcher.FindBestMatch(c.Request.Context(), strings.TrimSpace(q))
	if err != nil {
		respondServiceError(c, h.log, err, "no matching product found")
		return
	}

	score := match.Score
	h.respond(c, recommendResponse{
		SeedProductID:   match.ProductID,
		SeedProductName: match.ProductName,
		MatchScore:      &score,
	}, topN)
}

func (h *RecommendHandler) respond(c *gin.Context, resp recommendResponse, topN int) {
	recs, err := h.recommender.Recommend(c.Request.Context(), resp.SeedProductID, topN)
	if err != nil {
		respondServiceError(c, h.log, err, "seed product not found")
		return
	}

	resp.Recommendations = recs

	h.log.WithFields(logrus.Fields{
		"seed_product_id": resp.SeedProductID,
		"top_n":           topN,
		"count":           len(recs),
	}).Debug("recommendations served")

	c.JSON(http.StatusOK, resp)
}
