package products

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/catalog-api/catalog-api/internal/catalog/shared"
	"github.com/catalog-api/catalog-api/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	flight  singleflight.Group
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Post("/{id}", h.update)
	r.Post("/{id}/delete", h.delete)
	r.Post("/{id}/add-attribute", h.addAttribute)
	r.Post("/{id}/remove-attribute", h.removeAttribute)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	fs, err := shared.ParseFilters(r.URL.Query(), FilterColumns)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	prods, err := h.listCollapsed(r.Context(), fs)
	if err != nil {
		h.logger.Error("list products failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, prods)
}

// listCollapsed deduplicates identical concurrent list queries.
func (h *Handler) listCollapsed(ctx context.Context, fs shared.FilterSet) ([]Product, error) {
	resultChan := h.flight.DoChan(fs.Key(), func() (any, error) {
		return h.service.List(ctx, fs)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Product), nil
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	product, err := h.service.Create(r.Context(), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	product, err := h.service.Update(r.Context(), id, form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) addAttribute(w http.ResponseWriter, r *http.Request) {
	h.mutateAssociation(w, r, h.service.AddAttribute)
}

func (h *Handler) removeAttribute(w http.ResponseWriter, r *http.Request) {
	h.mutateAssociation(w, r, h.service.RemoveAttribute)
}

func (h *Handler) mutateAssociation(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, AssociationForm) (Product, error)) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var form AssociationForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.ProblemFields(w, map[string]string{"attribute_id": "must be a valid identifier"})
		return
	}
	product, err := op(r.Context(), id, form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// parseID reads the {id} path value. Non-numeric values do not resolve to a
// record and are reported as not found.
func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrNotFound)
		return 0, false
	}
	return id, true
}
