package ports

import (
	"context"
	"io"
	"time"

	"tpts/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Clock is the single source of "now" for commands and sweeps.
type Clock interface {
	Now() time.Time
}

// TokenGenerator issues customer-facing codes.
type TokenGenerator interface {
	// GenerateOtp returns a random numeric code of parcel.OtpLength digits.
	GenerateOtp() (string, error)
	GenerateTrackingNumber() (string, error)
	GenerateGroupCode() (string, error)
}

// NotificationType names an event a user is told about.
type NotificationType string

const (
	NotifyParcelConfirmed   NotificationType = "parcel.confirmed"
	NotifyPaymentFailed     NotificationType = "parcel.payment_failed"
	NotifyAssignmentOffer   NotificationType = "assignment.offered"
	NotifyParcelAssigned    NotificationType = "parcel.assigned"
	NotifyParcelPickedUp    NotificationType = "parcel.picked_up"
	NotifyParcelInTransit   NotificationType = "parcel.in_transit"
	NotifyParcelDelivered   NotificationType = "parcel.delivered"
	NotifyParcelCancelled   NotificationType = "parcel.cancelled"
	NotifyNeedsReassignment NotificationType = "dispatch.needs_reassignment"
	NotifyGroupJoined       NotificationType = "group.joined"
	NotifyGroupClosed       NotificationType = "group.closed"
	NotifyGroupDissolved    NotificationType = "group.dissolved"
	NotifyGroupCompleted    NotificationType = "group.completed"
	NotifyRefundFailed      NotificationType = "payment.refund_failed"
	NotifyPayoutResolved    NotificationType = "payout.resolved"
)

// Notification is delivered to one user. Payload values are plain strings so every
// transport can carry them.
type Notification struct {
	UserID  kernel.UUID
	Type    NotificationType
	Payload map[string]string
}

// Notifier hands a notification to the delivery channel. Failures are reported to the
// caller but never undo the state change that caused the notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// RefundRequest asks the payment gateway to return money to a customer.
type RefundRequest struct {
	ParcelID   kernel.UUID
	PaymentRef string
	Amount     decimal.Decimal
	Reason     string
}

// PaymentResult is the gateway's answer to a refund.
type PaymentResult struct {
	Success   bool
	Reference string
}

// PaymentGateway is the outbound side of payments. Checkout itself is driven by the
// gateway; the core only learns its result and requests refunds.
type PaymentGateway interface {
	Refund(ctx context.Context, req RefundRequest) (PaymentResult, error)
}

// DocumentStorage keeps uploaded documents such as proof-of-delivery photos and returns a
// URL that the parcel stores in place of the content.
type DocumentStorage interface {
	Store(ctx context.Context, name, contentType string, content io.Reader) (string, error)
}
