package handler

import (
	"net/http"

	"tourbook/internal/tours/service"
	"tourbook/pkg/config"
	httputil "tourbook/pkg/http"
	"tourbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type TourHandler struct {
	tours service.TourService
	types service.TourTypeService
	cfg   *config.Config
}

func NewTourHandler(tours service.TourService, types service.TourTypeService, cfg *config.Config) *TourHandler {
	return &TourHandler{tours: tours, types: types, cfg: cfg}
}

// Tour listings and detail reads are public; mutations are admin-only.
func (h *TourHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/tours", h.list)
	router.GET("/api/v1/tours/:id", h.getByID)
	router.POST("/api/v1/tours", h.create)
	router.PATCH("/api/v1/tours/:id", h.update)
	router.DELETE("/api/v1/tours/:id", h.delete)

	router.GET("/api/v1/tour-types", h.listTypes)
	router.GET("/api/v1/tour-types/:id", h.getTypeByID)
	router.POST("/api/v1/tour-types", h.createType)
	router.PATCH("/api/v1/tour-types/:id", h.updateType)
	router.DELETE("/api/v1/tour-types/:id", h.deleteType)
}

func (h *TourHandler) list(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	docs, meta, err := h.tours.GetAllTours(r.Context(), httputil.QueryMap(r))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WritePaginated(w, docs, meta)
}

func (h *TourHandler) getByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tour, err := h.tours.GetTourByID(r.Context(), ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, tour)
}

func (h *TourHandler) create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	var tour model.Tour
	if err := httputil.ReadJSON(r, &tour); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	created, err := h.tours.CreateTour(r.Context(), &tour)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteCreated(w, created)
}

func (h *TourHandler) update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	var update model.TourUpdate
	if err := httputil.ReadJSON(r, &update); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	tour, err := h.tours.UpdateTour(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, tour)
}

func (h *TourHandler) delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	if err := h.tours.DeleteTour(r.Context(), ps.ByName("id")); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *TourHandler) listTypes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	docs, meta, err := h.types.GetAllTourTypes(r.Context(), httputil.QueryMap(r))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WritePaginated(w, docs, meta)
}

func (h *TourHandler) getTypeByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourType, err := h.types.GetTourTypeByID(r.Context(), ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, tourType)
}

func (h *TourHandler) createType(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	var tourType model.TourType
	if err := httputil.ReadJSON(r, &tourType); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	created, err := h.types.CreateTourType(r.Context(), &tourType)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteCreated(w, created)
}

func (h *TourHandler) updateType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	var tourType model.TourType
	if err := httputil.ReadJSON(r, &tourType); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	updated, err := h.types.UpdateTourType(r.Context(), ps.ByName("id"), &tourType)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, updated)
}

func (h *TourHandler) deleteType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	if err := h.types.DeleteTourType(r.Context(), ps.ByName("id")); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
