package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/ports/repository"
	"mixpool-commerce/internal/infra/metrics"
	"mixpool-commerce/internal/usecase"
)

// PaymentReconciler periodically scans for stale unpaid orders that carry a
// checkout reference and re-verifies them against the provider. This covers
// webhook deliveries that never arrived and processes that crashed before
// finishing.
type PaymentReconciler struct {
	uc         usecase.PaymentUseCase
	orders     repository.OrderRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old an unpaid order must be to retry
	log        *zerolog.Logger
}

func NewPaymentReconciler(uc usecase.PaymentUseCase, orders repository.OrderRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	recLog := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{uc: uc, orders: orders, interval: interval, staleAfter: staleAfter, log: &recLog}
}

func (w *PaymentReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	stale, err := w.orders.ListUnpaidOlderThan(ctx, nil, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list stale orders")
		return
	}
	for _, o := range stale {
		if o.PaymentReference == "" {
			continue
		}
		if _, err := w.uc.VerifyAndProcess(ctx, o.PaymentReference); err != nil {
			// An unverified charge is the expected case here: the customer
			// abandoned checkout and the reference was never charged.
			if errors.Is(err, domain.ErrPaymentNotVerified) || errors.Is(err, domain.ErrNotFound) {
				metrics.IncReconcileAttempt("unpaid")
				continue
			}
			metrics.IncReconcileAttempt("error")
			w.log.Warn().Err(err).Str("order_id", o.ID).Str("reference", o.PaymentReference).Msg("reconcile failed")
			continue
		}
		metrics.IncReconcileAttempt("recovered")
		w.log.Info().Str("order_id", o.ID).Str("reference", o.PaymentReference).Msg("reconciled missed payment")
	}
}
