package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront-labs/shopcart/internal/catalog/app"
	catalogdomain "github.com/storefront-labs/shopcart/internal/catalog/domain"
)

type ProductHandler struct {
	svc *catalogapp.Service
}

func NewProductHandler(svc *catalogapp.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type productResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int32           `json:"stockQuantity"`
	Active        bool            `json:"active"`
}

func toProductResponse(p catalogdomain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Active:        p.Active,
	}
}

// GetProduct handles GET /api/products/:productId.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.svc.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

// ListActive handles GET /api/products.
func (h *ProductHandler) ListActive(c *gin.Context) {
	products, err := h.svc.ListActiveProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

// UpdateStock handles PUT /api/products/:productId/stock.
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	qty, err := parseQuantity(c.Request.FormValue("quantity"))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.svc.UpdateStock(c.Request.Context(), c.Param("productId"), qty); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// CheckAvailability handles GET /api/products/:productId/availability.
// The body is the bare boolean.
func (h *ProductHandler) CheckAvailability(c *gin.Context) {
	qty, err := parseQuantity(c.Request.FormValue("quantity"))
	if err != nil {
		writeError(c, err)
		return
	}

	available, err := h.svc.IsAvailable(c.Request.Context(), c.Param("productId"), qty)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, available)
}
