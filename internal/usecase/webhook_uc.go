// File: internal/usecase/webhook_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/domain/ports/adapter"
	"mixpool-commerce/internal/domain/ports/repository"
	"mixpool-commerce/internal/infra/logging"
	"mixpool-commerce/internal/infra/metrics"
)

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

// WebhookUseCase processes validated payment-provider events. Callers must
// have verified the delivery signature before handing the event in.
type WebhookUseCase interface {
	// Process applies the event's state transition exactly once per
	// reference. A duplicate delivery returns domain.ErrAlreadyProcessed and
	// performs no writes.
	Process(ctx context.Context, ev *model.PaymentEvent) error
}

type webhookUC struct {
	tm           repository.TransactionManager
	transactions repository.TransactionRepository
	orders       repository.OrderRepository
	bookings     repository.BookingRepository
	users        repository.UserRepository
	plans        repository.SubscriptionPlanRepository
	entitlements repository.EntitlementRepository
	locker       adapter.Locker
	notifier     adapter.Notifier
	log          *zerolog.Logger
}

// fallbackPlanDuration is used when the purchased plan cannot be resolved.
// The plan's duration_days is authoritative when available.
const fallbackPlanDuration = 30 * 24 * time.Hour

const referenceLockTTL = 30 * time.Second

func NewWebhookUseCase(
	tm repository.TransactionManager,
	transactions repository.TransactionRepository,
	orders repository.OrderRepository,
	bookings repository.BookingRepository,
	users repository.UserRepository,
	plans repository.SubscriptionPlanRepository,
	entitlements repository.EntitlementRepository,
	locker adapter.Locker,
	notifier adapter.Notifier,
	logger *zerolog.Logger,
) *webhookUC {
	return &webhookUC{
		tm:           tm,
		transactions: transactions,
		orders:       orders,
		bookings:     bookings,
		users:        users,
		plans:        plans,
		entitlements: entitlements,
		locker:       locker,
		notifier:     notifier,
		log:          logger,
	}
}

func (u *webhookUC) Process(ctx context.Context, ev *model.PaymentEvent) error {
	if ev == nil || ev.Reference == "" {
		return domain.ErrInvalidArgument
	}
	ctx = logging.WithReference(ctx, ev.Reference)
	log := logging.With(ctx, u.log)
	defer logging.TraceDuration(log, "WebhookUC.Process")()

	// Serialize concurrent deliveries of the same reference. The loser of the
	// race re-checks the idempotency guard below and becomes a no-op.
	lockKey := "payproc:" + ev.Reference
	lockToken, err := u.locker.TryLock(ctx, lockKey, referenceLockTTL)
	if err != nil {
		return fmt.Errorf("lock reference %s: %w", ev.Reference, err)
	}
	defer func() { _ = u.locker.Unlock(ctx, lockKey, lockToken) }()

	// Idempotency guard: the audit row is keyed by reference and inserted
	// before any entity mutation. It is written even when the linked entity
	// turns out to be missing, so the money is never silently dropped.
	txn := u.buildTransaction(ev)
	inserted, err := u.transactions.InsertOnce(ctx, nil, txn)
	if err != nil {
		return fmt.Errorf("record transaction %s: %w", ev.Reference, err)
	}
	if !inserted {
		log.Info().Msg("reference already processed, skipping")
		metrics.IncPaymentDuplicate()
		return domain.ErrAlreadyProcessed
	}

	metrics.IncPayment(string(txn.Type), ev.Status)
	if !ev.Succeeded() {
		log.Warn().Str("status", ev.Status).Msg("recorded failed payment event")
		return nil
	}
	metrics.AddPaymentRevenue(ev.Amount)

	// Each branch catches its own entity-update failures: a missing order or
	// user must not fail the event, the audit row above already stands.
	switch ev.Metadata.Kind() {
	case model.EventKindBooking:
		u.applyBooking(ctx, ev, log)
	case model.EventKindSubscription:
		u.applySubscription(ctx, ev, log)
	default:
		u.applyOrder(ctx, ev, log)
	}

	u.notify(ctx, ev, log)
	return nil
}

func (u *webhookUC) buildTransaction(ev *model.PaymentEvent) *model.Transaction {
	txn := &model.Transaction{
		ID:        ulid.Make().String(),
		Reference: ev.Reference,
		Amount:    ev.Amount,
		Email:     ev.Customer.Email,
		Status:    model.TransactionStatusSuccess,
		CreatedAt: time.Now(),
	}
	if !ev.Succeeded() {
		txn.Status = model.TransactionStatusFailed
	}
	switch ev.Metadata.Kind() {
	case model.EventKindBooking:
		txn.Type = model.TransactionTypeBooking
		if id := ev.Metadata.BookingID; id != "" {
			txn.BookingID = &id
		}
	case model.EventKindSubscription:
		txn.Type = model.TransactionTypeSubscription
		if id := ev.Metadata.UserID; id != "" {
			txn.UserID = &id
		}
	default:
		txn.Type = model.TransactionTypePurchase
		if id := ev.Metadata.OrderID; id != "" {
			txn.OrderID = &id
		}
		if id := ev.Metadata.UserID; id != "" {
			txn.UserID = &id
		}
	}
	return txn
}

func (u *webhookUC) applyBooking(ctx context.Context, ev *model.PaymentEvent, log *zerolog.Logger) {
	id := ev.Metadata.BookingID
	if id == "" {
		log.Error().Msg("booking event without booking_id, transaction recorded unlinked")
		return
	}
	updated, err := u.bookings.MarkPaid(ctx, nil, id, ev.Reference)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("booking update failed, transaction recorded unlinked")
		return
	}
	if !updated {
		log.Warn().Str("booking_id", id).Msg("booking was already paid")
	}
}

func (u *webhookUC) applySubscription(ctx context.Context, ev *model.PaymentEvent, log *zerolog.Logger) {
	userID := ev.Metadata.UserID
	if userID == "" {
		log.Warn().Msg("subscription event without user_id, transaction recorded unlinked")
		return
	}

	tier := model.TierBasic
	duration := fallbackPlanDuration
	if planID := ev.Metadata.PlanID; planID != "" {
		plan, err := u.plans.FindByID(ctx, nil, planID)
		if err != nil {
			log.Warn().Err(err).Str("plan_id", planID).Msg("plan lookup failed, using fallback duration")
		} else {
			tier = plan.Tier
			duration = plan.Duration()
		}
	} else {
		log.Warn().Msg("subscription event without plan_id, using fallback duration")
	}

	expiresAt := time.Now().Add(duration)
	if err := u.users.ActivateSubscription(ctx, nil, userID, tier, expiresAt); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("subscription activation failed, transaction recorded unlinked")
	}
}

func (u *webhookUC) applyOrder(ctx context.Context, ev *model.PaymentEvent, log *zerolog.Logger) {
	// order_id is required in the charge metadata. Payment references and
	// order ids are different id spaces; guessing one from the other has
	// produced misattributed orders before, so fail loudly instead.
	orderID := ev.Metadata.OrderID
	if orderID == "" {
		log.Error().Err(domain.ErrMissingOrderID).Msg("order event without order_id, transaction recorded unlinked")
		return
	}

	updated, err := u.orders.MarkPaid(ctx, nil, orderID, ev.Reference)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("order update failed, transaction recorded unlinked")
		return
	}
	if !updated {
		// Paid state never regresses and entitlements are granted with it.
		log.Warn().Str("order_id", orderID).Msg("order was already paid, skipping entitlement grant")
		return
	}

	order, err := u.orders.FindByID(ctx, nil, orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("order fetch after payment failed, entitlements not granted")
		return
	}

	userID := ev.Metadata.UserID
	if userID == "" && order.UserID != nil {
		userID = *order.UserID
	}
	if userID == "" {
		// Guest checkout: downloads go through order-scoped tokens instead.
		log.Info().Str("order_id", orderID).Msg("guest order paid, no per-user entitlement to grant")
		return
	}

	// All of the order's grants commit together: a multi-item order never
	// ends up with half its entitlements.
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		for _, item := range order.Items {
			for i := 0; i < item.Quantity; i++ {
				if err := u.entitlements.Grant(ctx, tx, userID, item.ProductID, ev.Reference); err != nil {
					return fmt.Errorf("grant %s to %s: %w", item.ProductID, userID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("entitlement grants rolled back")
	}
}

func (u *webhookUC) notify(ctx context.Context, ev *model.PaymentEvent, log *zerolog.Logger) {
	if u.notifier == nil {
		return
	}
	text := fmt.Sprintf("💰 %s payment %s: %d (ref %s, %s)",
		ev.Metadata.Kind(), ev.Status, ev.Amount, ev.Reference, ev.Customer.Email)
	if err := u.notifier.NotifySale(ctx, text); err != nil {
		log.Warn().Err(err).Msg("sale notification failed")
	}
}

// IsBenignProcessError reports whether err is an expected no-op outcome
// (duplicate delivery) rather than a processing failure.
func IsBenignProcessError(err error) bool {
	return errors.Is(err, domain.ErrAlreadyProcessed)
}
