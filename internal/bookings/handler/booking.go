package handler

import (
	"net/http"

	"tourbook/internal/bookings/service"
	"tourbook/pkg/config"
	apperrors "tourbook/pkg/errors"
	httputil "tourbook/pkg/http"
	"tourbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	cfg     *config.Config
}

func NewBookingHandler(svc service.BookingService, cfg *config.Config) *BookingHandler {
	return &BookingHandler{service: svc, cfg: cfg}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.create)
	router.GET("/api/v1/bookings", h.list)
	router.GET("/api/v1/bookings/:id", h.getByID)
	router.PATCH("/api/v1/bookings/:id/status", h.updateStatus)
	router.GET("/api/v1/me/bookings", h.listMine)
}

// create starts the checkout flow for the authenticated user and returns
// the gateway redirect URL with the created booking.
func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := httputil.RequireClaims(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	var payload model.Booking
	if err := httputil.ReadJSON(r, &payload); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	result, err := h.service.CreateBooking(r.Context(), &payload, claims.UserID)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteCreated(w, result)
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	docs, meta, err := h.service.GetAllBookings(r.Context(), httputil.QueryMap(r))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WritePaginated(w, docs, meta)
}

func (h *BookingHandler) listMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := httputil.RequireClaims(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), claims.UserID)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, bookings)
}

// getByID returns the populated booking. Regular users only see their own.
func (h *BookingHandler) getByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, err := httputil.RequireClaims(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	detail, err := h.service.GetBookingByID(r.Context(), ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	if claims.Role == model.RoleUser && detail.User.Email != claims.Email {
		_ = httputil.WriteError(w, apperrors.Forbidden("You can only view your own bookings"))
		return
	}
	_ = httputil.WriteSuccess(w, detail)
}

func (h *BookingHandler) updateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	var update model.BookingStatusUpdate
	if err := httputil.ReadJSON(r, &update); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	detail, err := h.service.UpdateBookingStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, detail)
}
