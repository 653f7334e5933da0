package handler

import (
	"net/http"

	"tourbook/internal/auth/service"
	"tourbook/pkg/config"
	httputil "tourbook/pkg/http"

	"github.com/julienschmidt/httprouter"
)

type AuthHandler struct {
	service service.AuthService
	cfg     *config.Config
}

func NewAuthHandler(svc service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{service: svc, cfg: cfg}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/login", h.login)
	router.POST("/api/v1/auth/refresh-token", h.refresh)
	router.POST("/api/v1/auth/change-password", h.changePassword)
	router.POST("/api/v1/auth/otp/send", h.sendOTP)
	router.POST("/api/v1/auth/otp/verify", h.verifyOTP)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httputil.ReadJSON(r, &body); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	pair, err := h.service.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, pair)
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := httputil.ReadJSON(r, &body); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	pair, err := h.service.RefreshToken(r.Context(), body.RefreshToken)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, pair)
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := httputil.RequireClaims(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	var body struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := httputil.ReadJSON(r, &body); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), claims.UserID, body.OldPassword, body.NewPassword); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *AuthHandler) sendOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Email string `json:"email"`
	}
	if err := httputil.ReadJSON(r, &body); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	if err := h.service.SendOTP(r.Context(), body.Email); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, map[string]string{"message": "OTP sent"})
}

func (h *AuthHandler) verifyOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := httputil.ReadJSON(r, &body); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	if err := h.service.VerifyOTP(r.Context(), body.Email, body.Code); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, map[string]string{"message": "Account verified"})
}
