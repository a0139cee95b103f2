// Package api serves the stores over JSON HTTP with gin, plus a websocket feed of store events.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"pantrypal"
	"pantrypal/barcode"
	"pantrypal/pantry"
	"pantrypal/pricing"
	"pantrypal/recipes"
	"pantrypal/shopping"
	"pantrypal/tools"
)

// ProductLookup resolves barcodes. *barcode.Client satisfies it.
type ProductLookup interface {
	Lookup(ctx context.Context, code string) (barcode.Product, error)
}

// Deps are the collaborators the handlers use.
type Deps struct {
	Pantry   *pantry.Store
	Shopping *shopping.Store
	Recipes  *recipes.Session
	Products ProductLookup
	Prices   *pricing.Estimator
	Tools    *tools.Registry
	Hub      *Hub
	Logger   *slog.Logger

	AllowOrigins []string
}

type Handler struct {
	pantry   *pantry.Store
	shopping *shopping.Store
	recipes  *recipes.Session
	products ProductLookup
	prices   *pricing.Estimator
	tools    *tools.Registry
}

// NewRouter wires every route onto a new gin engine.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hub := d.Hub
	if hub == nil {
		hub = NewHub(d.AllowOrigins)
	}
	prices := d.Prices
	if prices == nil {
		prices = pricing.NewEstimator(nil)
	}

	h := &Handler{
		pantry:   d.Pantry,
		shopping: d.Shopping,
		recipes:  d.Recipes,
		products: d.Products,
		prices:   prices,
		tools:    d.Tools,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(tracing())
	r.Use(cors.New(corsConfig(d.AllowOrigins)))

	r.GET("/health", h.Health)

	api := r.Group("/api")

	p := api.Group("/pantry")
	p.GET("", h.ListPantry)
	p.POST("", h.AddPantryItem)
	p.GET("/expiring", h.ExpiringPantryItems)
	p.GET("/categories", h.PantryByCategory)
	p.GET("/summary", h.PantrySummary)
	p.PATCH("/:id", h.UpdatePantryItem)
	p.DELETE("/:id", h.RemovePantryItem)
	p.POST("/:id/used-up", h.MarkPantryItemUsedUp)

	s := api.Group("/shopping")
	s.GET("", h.ListShopping)
	s.POST("", h.AddShoppingItem)
	s.POST("/bulk", h.AddShoppingItems)
	s.DELETE("", h.ClearShopping)
	s.DELETE("/completed", h.ClearCompletedShopping)
	s.GET("/categories", h.ShoppingByCategory)
	s.GET("/status", h.ShoppingByStatus)
	s.PATCH("/:id", h.UpdateShoppingItem)
	s.POST("/:id/toggle", h.ToggleShoppingItem)
	s.DELETE("/:id", h.RemoveShoppingItem)

	rc := api.Group("/recipes")
	rc.GET("/search", h.SearchRecipes)
	rc.GET("/recent", h.RecentRecipes)
	rc.DELETE("/recent", h.ClearRecentRecipes)
	rc.PUT("/api-key", h.SetAPIKey)
	rc.GET("/:id", h.RecipeDetails)
	rc.POST("/:id/shopping", h.AddRecipeToShopping)

	api.GET("/barcode/:code", h.LookupBarcode)
	api.GET("/prices/estimate", h.EstimatePrice)
	api.GET("/tools", h.ListTools)
	api.POST("/tools/:name", h.RunTool)
	api.GET("/events", hub.Serve)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// tracing starts a server span per request.
func tracing() gin.HandlerFunc {
	tracer := otel.Tracer(pantrypal.TracerNameServer)
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
