package handler

import (
	"context"
	"net/http"

	"tourbook/internal/payments/service"
	"tourbook/pkg/config"
	httputil "tourbook/pkg/http"
	"tourbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PaymentHandler struct {
	service service.PaymentService
	cfg     *config.Config
}

func NewPaymentHandler(svc service.PaymentService, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{service: svc, cfg: cfg}
}

// The success/fail/cancel routes are the gateway's server-to-server
// callbacks and stay public; they are keyed by transaction id only.
func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments/success/:transactionId", h.success)
	router.POST("/api/v1/payments/fail/:transactionId", h.fail)
	router.POST("/api/v1/payments/cancel/:transactionId", h.cancel)
	router.GET("/api/v1/payments/detail/:id", h.getByID)
}

func (h *PaymentHandler) success(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.settle(w, r, ps, h.service.SuccessPayment)
}

func (h *PaymentHandler) fail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.settle(w, r, ps, h.service.FailPayment)
}

func (h *PaymentHandler) cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.settle(w, r, ps, h.service.CancelPayment)
}

func (h *PaymentHandler) settle(
	w http.ResponseWriter,
	r *http.Request,
	ps httprouter.Params,
	fn func(ctx context.Context, transactionID string) (*model.Payment, error),
) {
	payment, err := fn(r.Context(), ps.ByName("transactionId"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, payment)
}

func (h *PaymentHandler) getByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, err := httputil.RequireRole(r, model.RoleAdmin, model.RoleSuperAdmin); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	payment, err := h.service.GetPaymentByID(r.Context(), ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, payment)
}
