package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProductHandler serves catalog, product detail and price endpoints.
type ProductHandler struct {
	products     ProductQuerier
	prices       PriceQuoter
	catalogLimit int
	log          *logrus.Logger
}

// NewProductHandler creates a ProductHandler. The catalog endpoint returns at
// most catalogLimit entries.
func NewProductHandler(products ProductQuerier, prices PriceQuoter, catalogLimit int, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{products: products, prices: prices, catalogLimit: catalogLimit, log: log}
}

// Catalog handles GET /meta/products.
func (h *ProductHandler) Catalog(c *gin.Context) {
	entries, err := h.products.ListCatalog(c.Request.Context(), h.catalogLimit)
	if err != nil {
		respondServiceError(c, h.log, err, "catalog not found")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Get handles GET /product/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	p, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "product not found")
		return
	}

	c.JSON(http.StatusOK, p)
}

// LivePrice handles GET /product/live_price/:id. Unknown products are quoted
// from the cache at zero rather than rejected.
func (h *ProductHandler) LivePrice(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	quote, err := h.prices.LivePrice(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "product not found")
		return
	}

	h.log.WithFields(logrus.Fields{"product_id": id, "status": quote.Status}).Debug("price quoted")

	c.JSON(http.StatusOK, quote)
}
