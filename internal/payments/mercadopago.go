package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MercadoPagoAdapter implements PaymentGateway against the MercadoPago
// checkout-preference API.
type MercadoPagoAdapter struct {
	AccessToken     string
	SuccessURL      string
	FailureURL      string
	NotificationURL string
	IsProduction    bool

	baseURL    string
	httpClient *http.Client
}

func NewMercadoPagoAdapter(accessToken, successURL, failureURL, notificationURL string, isProd bool) *MercadoPagoAdapter {
	return &MercadoPagoAdapter{
		AccessToken:     accessToken,
		SuccessURL:      successURL,
		FailureURL:      failureURL,
		NotificationURL: notificationURL,
		IsProduction:    isProd,
		baseURL:         "https://api.mercadopago.com",
		httpClient:      http.DefaultClient,
	}
}

// InitiatePayment creates a checkout preference and returns the redirect URL
// the customer is sent to. external_reference carries the booking number so
// the webhook can find the booking back.
func (m *MercadoPagoAdapter) InitiatePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error) {
	payload := map[string]any{
		"items": []map[string]any{{
			"title":       req.ProductName,
			"quantity":    1,
			"unit_price":  req.Amount,
			"currency_id": "ARS",
		}},
		"payer": map[string]string{
			"name":  req.CustomerName,
			"email": req.CustomerEmail,
		},
		"external_reference": req.TransactionID,
		"back_urls": map[string]string{
			"success": m.SuccessURL,
			"failure": m.FailureURL,
			"pending": m.SuccessURL,
		},
		"notification_url": m.NotificationURL,
		"auto_return":      "approved",
	}

	body, _ := json.Marshal(payload)

	url := m.baseURL + "/checkout/preferences"
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	httpReq.Header.Set("Authorization", "Bearer "+m.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("mercadopago preference request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return PaymentResponse{}, fmt.Errorf("mercadopago preference failed: http=%d body=%s", resp.StatusCode, string(raw))
	}

	var res struct {
		ID              string `json:"id"`
		InitPoint       string `json:"init_point"`
		SandboxInitPoint string `json:"sandbox_init_point"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return PaymentResponse{}, fmt.Errorf("mercadopago preference decode: %w body=%s", err, string(raw))
	}

	redirect := res.InitPoint
	if !m.IsProduction && res.SandboxInitPoint != "" {
		redirect = res.SandboxInitPoint
	}

	return PaymentResponse{
		RedirectURL:  redirect,
		PreferenceID: res.ID,
	}, nil
}

// VerifyPayment looks up the payment the webhook announced. Only an
// "approved" status counts as success.
func (m *MercadoPagoAdapter) VerifyPayment(ctx context.Context, req PaymentVerifyRequest) (PaymentVerifyResponse, error) {
	paymentID := strings.TrimSpace(req.PaymentID)
	if paymentID == "" {
		return PaymentVerifyResponse{}, fmt.Errorf("mercadopago verify requires a payment id")
	}

	url := m.baseURL + "/v1/payments/" + paymentID
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	httpReq.Header.Set("Authorization", "Bearer "+m.AccessToken)

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return PaymentVerifyResponse{}, fmt.Errorf("mercadopago payment lookup: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return PaymentVerifyResponse{}, fmt.Errorf("mercadopago payment lookup failed: http=%d body=%s", resp.StatusCode, string(raw))
	}

	var res struct {
		Status            string `json:"status"`
		ExternalReference string `json:"external_reference"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return PaymentVerifyResponse{}, fmt.Errorf("mercadopago payment decode: %w body=%s", err, string(raw))
	}

	return PaymentVerifyResponse{
		Success:           strings.EqualFold(res.Status, "approved"),
		Status:            res.Status,
		ExternalReference: res.ExternalReference,
	}, nil
}
