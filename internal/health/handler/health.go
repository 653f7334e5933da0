package handler

import (
	"net/http"

	"tourbook/pkg/config"
	httputil "tourbook/pkg/http"

	"github.com/julienschmidt/httprouter"
)

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/healthz", h.live)
	router.GET("/readyz", h.ready)
}

func (h *HealthHandler) live(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ready pings Mongo so load balancers stop routing when the database is gone.
func (h *HealthHandler) ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.cfg.Client.Mongo.Ping(r.Context(), nil); err != nil {
		h.cfg.Log.Warn("Readiness check failed", "error", err)
		_ = httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
