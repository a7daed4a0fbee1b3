package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/shramba/internal/analytics"
	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/barcode"
	"github.com/erazemk/shramba/internal/catalog"
	"github.com/erazemk/shramba/internal/metrics"
	"github.com/erazemk/shramba/internal/pantry"
	"github.com/erazemk/shramba/internal/recipes"
	"github.com/erazemk/shramba/internal/store"
)

// RecipeFinder suggests recipes for a set of ingredient names.
type RecipeFinder interface {
	Suggest(ctx context.Context, ingredients []string) ([]recipes.Recipe, error)
	Info(ctx context.Context, id int64) (*recipes.Info, error)
}

// ProductCatalog resolves a barcode to a product.
type ProductCatalog interface {
	Lookup(ctx context.Context, barcode string) (*catalog.Product, error)
}

// Config holds the router's collaborators. Recipes, Catalog and Barcodes
// may be nil, in which case their endpoints answer 503.
type Config struct {
	DB       *sql.DB
	Issuer   *auth.Issuer
	Recipes  RecipeFinder
	Catalog  ProductCatalog
	Barcodes barcode.Decoder
	Metrics  *metrics.Metrics

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg Config) http.Handler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	items := store.NewItems(cfg.DB)
	svc := pantry.NewService(items, clock)
	engine := analytics.NewEngine(items)

	authHandler := &AuthHandler{DB: cfg.DB, Issuer: cfg.Issuer}
	usersHandler := &UsersHandler{DB: cfg.DB}
	itemsHandler := &ItemsHandler{Pantry: svc, Metrics: cfg.Metrics}
	statsHandler := &StatsHandler{Analytics: engine, Clock: clock}
	groceryHandler := &GroceryHandler{DB: cfg.DB}
	recipesHandler := &RecipesHandler{DB: cfg.DB, Pantry: items, Recipes: cfg.Recipes}
	scanHandler := &ScanHandler{Pantry: svc, Decoder: cfg.Barcodes, Catalog: cfg.Catalog}

	authMW := AuthMiddleware(cfg.Issuer, cfg.DB)
	protected := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	mux := http.NewServeMux()

	// Public.
	mux.HandleFunc("GET /health", health)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.Handle("POST /api/auth/logout", protected(authHandler.Logout))

	// Account.
	mux.Handle("GET /api/user/profile", protected(usersHandler.Profile))
	mux.Handle("PUT /api/user/profile", protected(usersHandler.UpdateProfile))
	mux.Handle("PUT /api/user/password", protected(usersHandler.ChangePassword))

	// Pantry items.
	mux.Handle("GET /api/items", protected(itemsHandler.ListActive))
	mux.Handle("POST /api/items", protected(itemsHandler.Create))
	mux.Handle("GET /api/items/used", protected(itemsHandler.ListUsed))
	mux.Handle("GET /api/items/wasted", protected(itemsHandler.ListWasted))
	mux.Handle("PUT /api/items/{id}", protected(itemsHandler.Update))
	mux.Handle("POST /api/items/{id}/use", protected(itemsHandler.Use))
	mux.Handle("POST /api/items/{id}/waste", protected(itemsHandler.Waste))
	mux.Handle("POST /api/items/{id}/auto-waste", protected(itemsHandler.AutoWaste))

	// Statistics.
	mux.Handle("GET /api/stats/weekly", protected(statsHandler.Weekly))
	mux.Handle("GET /api/stats/category-breakdown", protected(statsHandler.CategoryBreakdown))
	mux.Handle("GET /api/stats/daily-trend", protected(statsHandler.DailyTrend))
	mux.Handle("GET /api/stats/details", protected(statsHandler.Details))

	// Grocery list.
	mux.Handle("GET /api/grocery", protected(groceryHandler.List))
	mux.Handle("POST /api/grocery", protected(groceryHandler.Create))
	mux.Handle("PUT /api/grocery/{id}", protected(groceryHandler.Update))
	mux.Handle("DELETE /api/grocery/{id}", protected(groceryHandler.Delete))

	// Recipes.
	mux.Handle("GET /api/recipes", protected(recipesHandler.Suggest))
	mux.Handle("GET /api/recipes/bookmarks", protected(recipesHandler.ListBookmarks))
	mux.Handle("POST /api/recipes/bookmarks", protected(recipesHandler.ToggleBookmark))
	mux.Handle("GET /api/recipes/{id}/info", protected(recipesHandler.Info))

	// Barcode scanning.
	mux.Handle("POST /api/scan", protected(scanHandler.Scan))

	return LoggingMiddleware(cfg.Metrics)(mux)
}

func health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
