package domain

import "errors"

var (
	MessageSuccessGetPackages = "point packages retrieved successfully"
	MessageSuccessCreateOrder = "order created successfully"
	MessageSuccessWebhook     = "webhook processed successfully"

	MessageFailedGetPackages = "failed to retrieve point packages"
	MessageFailedCreateOrder = "failed to create order"
	MessageFailedWebhook     = "failed to process webhook"

	ErrInvalidPackage   = errors.New("invalid point package")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidProvider  = errors.New("unsupported payment provider")
	ErrPaymentFailed    = errors.New("payment processing failed")
)

const (
	PaymentStatusCreated  = "CREATED"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusCanceled = "CANCELED"
	PaymentStatusRefunded = "REFUNDED"

	ProviderMidtrans = "MIDTRANS"
	ProviderToss     = "TOSS"
	ProviderEtc      = "ETC"
)

type (
	PointPackage struct {
		ID    string `json:"id"`
		KRW   int64  `json:"krw"`
		Point int64  `json:"point"`
	}

	CreateOrderRequest struct {
		PackageID string `json:"package_id" validate:"required"`
	}

	CreateOrderResponse struct {
		OrderID     string `json:"order_id"`
		PaymentID   string `json:"payment_id"`
		Provider    string `json:"provider"`
		CheckoutURL string `json:"checkout_url,omitempty"`
	}

	PaymentWebhookRequest struct {
		OrderID string `json:"order_id" validate:"required"`
		Status  string `json:"status" validate:"required,oneof=PAID FAILED CANCELED REFUNDED"`
		Raw     string `json:"raw,omitempty"`
	}

	PaymentWebhookResponse struct {
		OK         bool `json:"ok"`
		Idempotent bool `json:"idempotent,omitempty"`
	}
)

// PointPackages is the fixed shop catalog.
var PointPackages = []PointPackage{
	{ID: "p1000", KRW: 1000, Point: 1000},
	{ID: "p5000", KRW: 5000, Point: 5500},
	{ID: "p10000", KRW: 10000, Point: 11500},
}
