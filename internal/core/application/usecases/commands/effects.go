package commands

import (
	"context"
	"fmt"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/core/ports"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// effects are collected while a cycle runs and executed only after it commits, so a
// retried attempt never notifies, refunds or counts twice.
type effects struct {
	notifications []ports.Notification
	refunds       []ports.RefundRequest
	counters      []prometheus.Counter
}

func (fx *effects) notify(userID kernel.UUID, t ports.NotificationType, payload map[string]string) {
	fx.notifications = append(fx.notifications, ports.Notification{UserID: userID, Type: t, Payload: payload})
}

func (fx *effects) refund(req ports.RefundRequest) {
	fx.refunds = append(fx.refunds, req)
}

func (fx *effects) count(c prometheus.Counter) {
	fx.counters = append(fx.counters, c)
}

// EffectRunner executes committed side effects concurrently. Notification failures are
// logged and counted; refund failures are also returned as errs.ErrRefundFailed so the
// caller can report them. Nothing here touches state.
type EffectRunner struct {
	notifier ports.Notifier
	payments ports.PaymentGateway
	logger   *zap.Logger
	limit    int
}

func NewEffectRunner(notifier ports.Notifier, payments ports.PaymentGateway, logger *zap.Logger) *EffectRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EffectRunner{notifier: notifier, payments: payments, logger: logger, limit: 8}
}

func (r *EffectRunner) run(ctx context.Context, fx effects) error {
	for _, c := range fx.counters {
		c.Inc()
	}
	if r == nil {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(r.limit)

	for _, n := range fx.notifications {
		g.Go(func() error {
			if r.notifier == nil {
				return nil
			}
			if err := r.notifier.Notify(ctx, n); err != nil {
				metrics.SideEffectFailures.WithLabelValues("notify").Inc()
				r.logger.Warn("notification not delivered",
					zap.String("type", string(n.Type)),
					zap.Stringer("user_id", n.UserID),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	for _, req := range fx.refunds {
		g.Go(func() error {
			return r.refund(ctx, req)
		})
	}

	return g.Wait()
}

func (r *EffectRunner) refund(ctx context.Context, req ports.RefundRequest) error {
	if r.payments == nil {
		return fmt.Errorf("%w: no payment gateway configured", errs.ErrRefundFailed)
	}

	res, err := r.payments.Refund(ctx, req)
	if err == nil && !res.Success {
		err = fmt.Errorf("gateway declined refund of %s", req.Amount)
	}
	if err != nil {
		metrics.SideEffectFailures.WithLabelValues("refund").Inc()
		r.logger.Error("refund failed",
			zap.Stringer("parcel_id", req.ParcelID),
			zap.String("payment_ref", req.PaymentRef),
			zap.String("amount", req.Amount.StringFixed(kernel.CurrencyScale)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: parcel %s: %w", errs.ErrRefundFailed, req.ParcelID, err)
	}

	r.logger.Info("refund requested",
		zap.Stringer("parcel_id", req.ParcelID),
		zap.String("reference", res.Reference),
	)
	return nil
}
