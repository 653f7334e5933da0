// Package gateway wraps the external payment provider. The provider is an
// opaque collaborator: the booking flow only needs a session redirect URL
// for a transaction id, and treats its absence as failure.
package gateway

import (
	"context"
	"fmt"
	"net/http"

	"tourbook/pkg/client"
	"tourbook/pkg/config"
	"tourbook/pkg/logger"
)

// InitRequest carries the customer contact snapshot plus the amount and the
// pre-generated transaction id.
type InitRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	PhoneNumber   string  `json:"phoneNumber"`
	Address       string  `json:"address"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
}

// InitResponse from the provider. An empty GatewayPageURL means the session
// was not created.
type InitResponse struct {
	GatewayPageURL string `json:"GatewayPageURL"`
}

type PaymentGateway interface {
	InitializePayment(ctx context.Context, req *InitRequest) (*InitResponse, error)
}

type httpGateway struct {
	cfg        *config.Config
	httpClient *client.HttpClient
	log        *logger.Logger
}

func NewHTTPGateway(cfg *config.Config) PaymentGateway {
	return &httpGateway{
		cfg:        cfg,
		httpClient: client.NewHttpClient(cfg.GatewayBaseURL, cfg.GatewayTimeout),
		log:        cfg.Log,
	}
}

// initPayload is the provider's wire format; credentials ride along with
// every session request.
type initPayload struct {
	StoreID       string  `json:"store_id"`
	StorePassword string  `json:"store_passwd"`
	TotalAmount   float64 `json:"total_amount"`
	Currency      string  `json:"currency"`
	TransactionID string  `json:"tran_id"`
	SuccessURL    string  `json:"success_url"`
	FailURL       string  `json:"fail_url"`
	CancelURL     string  `json:"cancel_url"`
	CustomerName  string  `json:"cus_name"`
	CustomerEmail string  `json:"cus_email"`
	CustomerPhone string  `json:"cus_phone"`
	CustomerAddr  string  `json:"cus_add1"`
}

func (g *httpGateway) InitializePayment(ctx context.Context, req *InitRequest) (*InitResponse, error) {
	payload := initPayload{
		StoreID:       g.cfg.GatewayStoreID,
		StorePassword: g.cfg.GatewayStorePass,
		TotalAmount:   req.Amount,
		Currency:      "BDT",
		TransactionID: req.TransactionID,
		SuccessURL:    g.cfg.PaymentSuccess,
		FailURL:       g.cfg.PaymentFail,
		CancelURL:     g.cfg.PaymentCancel,
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		CustomerPhone: req.PhoneNumber,
		CustomerAddr:  req.Address,
	}

	resp, err := g.httpClient.POST(ctx, "", payload)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var initResp InitResponse
	if err := resp.DecodeJSON(&initResp); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	g.log.Debug("Payment session initialized",
		"transaction_id", req.TransactionID,
		"has_redirect", initResp.GatewayPageURL != "",
	)
	return &initResp, nil
}
