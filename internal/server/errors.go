package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront-labs/shopcart/internal/apperr"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFromKind maps the service error taxonomy onto HTTP statuses.
func statusFromKind(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidArgument, apperr.InvalidQuantity, apperr.ArithmeticOverflow:
		return http.StatusBadRequest
	case apperr.ProductNotFound, apperr.CartNotFound:
		return http.StatusNotFound
	case apperr.ProductNotAvailable, apperr.OutOfStock, apperr.CartFull:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	code := "internal"
	details := ""
	if kind != "" {
		code = string(kind)
		details = err.Error()
	}
	c.JSON(statusFromKind(kind), errorResponse{Error: code, Details: details})
}
