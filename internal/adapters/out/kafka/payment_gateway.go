package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/ports"
)

type refundMessage struct {
	RequestID  string `json:"request_id"`
	ParcelID   string `json:"parcel_id"`
	PaymentRef string `json:"payment_ref"`
	Amount     string `json:"amount"`
	Reason     string `json:"reason"`
}

// PaymentGateway implements ports.PaymentGateway by queueing refund requests for the
// payment service. A request that reached the broker counts as accepted; the reference is
// the request id the payment service reports back against.
type PaymentGateway struct {
	producer *Producer
}

func NewPaymentGateway(producer *Producer) *PaymentGateway {
	return &PaymentGateway{producer: producer}
}

func (g *PaymentGateway) Refund(ctx context.Context, req ports.RefundRequest) (ports.PaymentResult, error) {
	requestID := kernel.NewUUID().String()
	value, err := json.Marshal(refundMessage{
		RequestID:  requestID,
		ParcelID:   req.ParcelID.String(),
		PaymentRef: req.PaymentRef,
		Amount:     req.Amount.StringFixed(kernel.CurrencyScale),
		Reason:     req.Reason,
	})
	if err != nil {
		return ports.PaymentResult{}, fmt.Errorf("encode refund: %w", err)
	}

	if err = g.producer.Publish(ctx, TopicRefundRequests, []byte(req.ParcelID.String()), value); err != nil {
		return ports.PaymentResult{}, err
	}
	return ports.PaymentResult{Success: true, Reference: requestID}, nil
}
