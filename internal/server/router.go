// Package server wires the cart and catalog services into the HTTP
// API.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cartapp "github.com/storefront-labs/shopcart/internal/cart/app"
	catalogapp "github.com/storefront-labs/shopcart/internal/catalog/app"
)

func NewRouter(carts *cartapp.Service, products *catalogapp.Service, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("shopcart"))
	r.Use(requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	api := r.Group("/api")

	cart := NewCartHandler(carts)
	cartGroup := api.Group("/cart")
	cartGroup.POST("/add", cart.AddItem)
	cartGroup.GET("/:userId", cart.GetCart)
	cartGroup.DELETE("/:userId/items/:productId", cart.RemoveItem)

	product := NewProductHandler(products)
	productGroup := api.Group("/products")
	productGroup.GET("", product.ListActive)
	productGroup.GET("/:productId", product.GetProduct)
	productGroup.PUT("/:productId/stock", product.UpdateStock)
	productGroup.GET("/:productId/availability", product.CheckAvailability)

	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", reqID)

		c.Next()

		log.Info("http request",
			slog.String("request_id", reqID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
