package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/storefront-labs/shopcart/internal/apperr"
	cartapp "github.com/storefront-labs/shopcart/internal/cart/app"
	cartdomain "github.com/storefront-labs/shopcart/internal/cart/domain"
)

type CartHandler struct {
	svc *cartapp.Service
}

func NewCartHandler(svc *cartapp.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

type cartLineResponse struct {
	ProductID string          `json:"productId"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type cartResponse struct {
	UserID string             `json:"userId"`
	Lines  []cartLineResponse `json:"lines"`
}

func toCartResponse(cart cartdomain.Cart) cartResponse {
	out := cartResponse{UserID: cart.UserID, Lines: make([]cartLineResponse, 0, len(cart.Lines))}
	for _, l := range cart.Lines {
		out.Lines = append(out.Lines, cartLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return out
}

// AddItem handles POST /api/cart/add with userId, productId and
// quantity as query or form parameters.
func (h *CartHandler) AddItem(c *gin.Context) {
	userID := c.Request.FormValue("userId")
	productID := c.Request.FormValue("productId")
	qty, err := parseQuantity(c.Request.FormValue("quantity"))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.svc.AddItem(c.Request.Context(), userID, productID, qty); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GetCart handles GET /api/cart/:userId.
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.svc.GetCart(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// RemoveItem handles DELETE /api/cart/:userId/items/:productId.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	err := h.svc.RemoveItem(c.Request.Context(), c.Param("userId"), c.Param("productId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func parseQuantity(raw string) (int32, error) {
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, apperr.Wrap(apperr.InvalidArgument, "quantity must be an integer", err)
	}
	return int32(n), nil
}
