package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/catalog-api/catalog-api/internal/catalog/attributes"
	"github.com/catalog-api/catalog-api/internal/catalog/products"
	"github.com/catalog-api/catalog-api/internal/observability"
	"github.com/catalog-api/catalog-api/internal/platform/httpx"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AttributesHandler *attributes.Handler
	ProductsHandler   *products.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with catalog defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}
	if params.Metrics != nil {
		r.Use(func(next http.Handler) http.Handler {
			return params.Metrics.Middleware(next)
		})
	}

	// A verb that is not wired for a path is reported as 400, not 405.
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondError(w, httpx.ErrMethodNotSupported)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondError(w, httpx.ErrNotFound)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/attributes", params.AttributesHandler.MountRoutes)
	r.Route("/products", params.ProductsHandler.MountRoutes)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
