package payments

type PaymentRequest struct {
	TransactionID string
	Amount        float64
	ProductName   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

type PaymentResponse struct {
	// RedirectURL is the provider-hosted checkout page the customer is sent to.
	RedirectURL  string
	PreferenceID string
}

type PaymentVerifyRequest struct {
	// PaymentID is the provider's payment identifier from the webhook.
	PaymentID string
}

type PaymentVerifyResponse struct {
	Success bool
	// Status is the provider status string (approved, pending, rejected, ...).
	Status string
	// ExternalReference echoes the TransactionID the preference was created with.
	ExternalReference string
}
