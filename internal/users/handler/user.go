package handler

import (
	"net/http"

	"tourbook/internal/users/service"
	"tourbook/pkg/config"
	apperrors "tourbook/pkg/errors"
	httputil "tourbook/pkg/http"
	"tourbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	cfg     *config.Config
}

func NewUserHandler(svc service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{service: svc, cfg: cfg}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users/register", h.register)
	router.GET("/api/v1/users", h.list)
	router.GET("/api/v1/users/:id", h.getByID)
	router.PATCH("/api/v1/users/:id", h.update)
	router.PATCH("/api/v1/users/:id/status", h.updateStatus)
	router.GET("/api/v1/me", h.me)
}

// register is public self-signup; the role is always forced to USER.
func (h *UserHandler) register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		model.User
		Password string `json:"password"`
	}
	if err := httputil.ReadJSON(r, &payload); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	user := payload.User
	user.Password = payload.Password
	user.Role = model.RoleUser

	created, err := h.service.CreateUser(r.Context(), &user)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteCreated(w, created)
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := httputil.RequireClaims(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, user)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	docs, meta, err := h.service.GetAllUsers(r.Context(), httputil.QueryMap(r))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WritePaginated(w, docs, meta)
}

func (h *UserHandler) getByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, user)
}

// update lets users edit their own profile; admins can edit anyone.
func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, err := httputil.RequireClaims(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	id := ps.ByName("id")
	if claims.Role == model.RoleUser && claims.UserID != id {
		_ = httputil.WriteError(w, apperrors.Forbidden("You can only update your own profile"))
		return
	}

	var update model.UserUpdate
	if err := httputil.ReadJSON(r, &update); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, &update)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, user)
}

func (h *UserHandler) updateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	var update model.UserStatusUpdate
	if err := httputil.ReadJSON(r, &update); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	user, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, user)
}
