package payments

import "context"

// PaymentGateway is the provider-hosted checkout port: create a preference,
// redirect the customer, verify the payment the webhook reports. The payment
// state machine itself lives with the provider.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error)
	VerifyPayment(ctx context.Context, req PaymentVerifyRequest) (PaymentVerifyResponse, error)
}
