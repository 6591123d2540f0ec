//go:build !integration

package usecase_test

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/domain/ports/repository"
)

// MockTxManager runs the callback without a real transaction; the mock repos
// ignore the tx handle anyway.
type MockTxManager struct{}

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return &l
}

// --- Transactions ---

type MockTransactionRepo struct {
	mu            sync.Mutex
	byReference   map[string]*model.Transaction
	InsertOnceErr error
}

func NewMockTransactionRepo() *MockTransactionRepo {
	return &MockTransactionRepo{byReference: make(map[string]*model.Transaction)}
}

func (m *MockTransactionRepo) InsertOnce(ctx context.Context, tx repository.Tx, t *model.Transaction) (bool, error) {
	if m.InsertOnceErr != nil {
		return false, m.InsertOnceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byReference[t.Reference]; exists {
		return false, nil
	}
	cp := *t
	m.byReference[t.Reference] = &cp
	return true, nil
}

func (m *MockTransactionRepo) FindByReference(ctx context.Context, tx repository.Tx, ref string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byReference[ref]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockTransactionRepo) SumByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, t := range m.byReference {
		if t.Status == model.TransactionStatusSuccess {
			sum += t.Amount
		}
	}
	return sum, nil
}

func (m *MockTransactionRepo) ListSince(ctx context.Context, tx repository.Tx, since time.Time, limit int) ([]*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Transaction
	for _, t := range m.byReference {
		if t.CreatedAt.After(since) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTransactionRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byReference)
}

// --- Orders ---

type MockOrderRepo struct {
	mu    sync.Mutex
	store map[string]*model.Order
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{store: make(map[string]*model.Order)}
}

func (m *MockOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *MockOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepo) MarkPaid(ctx context.Context, tx repository.Tx, id, reference string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if o.IsPaid {
		return false, nil
	}
	o.IsPaid = true
	o.Status = model.OrderStatusProcessing
	o.PaymentReference = reference
	return true, nil
}

func (m *MockOrderRepo) ListUnpaidOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time, limit int) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Order
	for _, o := range m.store {
		if !o.IsPaid && o.PaymentReference != "" && o.CreatedAt.Before(cutoff) {
			cp := *o
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// --- Bookings ---

type MockBookingRepo struct {
	mu    sync.Mutex
	store map[string]*model.Booking
}

func NewMockBookingRepo() *MockBookingRepo {
	return &MockBookingRepo{store: make(map[string]*model.Booking)}
}

func (m *MockBookingRepo) Save(ctx context.Context, tx repository.Tx, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.store[b.ID] = &cp
	return nil
}

func (m *MockBookingRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MockBookingRepo) MarkPaid(ctx context.Context, tx repository.Tx, id, reference string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if b.Paid {
		return false, nil
	}
	b.Paid = true
	b.Status = model.BookingStatusConfirmed
	b.PaymentReference = reference
	return true, nil
}

// --- Users ---

type MockUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) ActivateSubscription(ctx context.Context, tx repository.Tx, userID string, tier model.TierAccess, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.SubscriptionStatus = model.SubscriptionStatusActive
	u.SubscriptionTier = tier
	u.SubscriptionExpiresAt = &expiresAt
	return nil
}

func (m *MockUserRepo) ExpireSubscriptions(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.store {
		if u.SubscriptionStatus == model.SubscriptionStatusActive &&
			u.SubscriptionExpiresAt != nil && !now.Before(*u.SubscriptionExpiresAt) {
			u.SubscriptionStatus = model.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

// --- Plans ---

type MockPlanRepo struct {
	mu    sync.Mutex
	store map[string]*model.SubscriptionPlan
}

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{store: make(map[string]*model.SubscriptionPlan)}
}

func (m *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.SubscriptionPlan
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// --- Entitlements ---

type entitlementKey struct{ userID, productID string }

type MockEntitlementRepo struct {
	mu    sync.Mutex
	store map[entitlementKey]*model.ProductAccess
}

func NewMockEntitlementRepo() *MockEntitlementRepo {
	return &MockEntitlementRepo{store: make(map[entitlementKey]*model.ProductAccess)}
}

func (m *MockEntitlementRepo) Grant(ctx context.Context, tx repository.Tx, userID, productID, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := entitlementKey{userID, productID}
	if a, ok := m.store[key]; ok {
		a.DownloadsRemaining++
		a.LastPurchasedAt = time.Now()
		return nil
	}
	m.store[key] = &model.ProductAccess{
		UserID:             userID,
		ProductID:          productID,
		DownloadsRemaining: 1,
		LastPurchasedAt:    time.Now(),
	}
	return nil
}

func (m *MockEntitlementRepo) Consume(ctx context.Context, tx repository.Tx, userID, productID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[entitlementKey{userID, productID}]
	if !ok {
		return 0, domain.ErrPurchaseRequired
	}
	if a.ExpiresAt != nil && !time.Now().Before(*a.ExpiresAt) {
		return 0, domain.ErrEntitlementExpired
	}
	if a.DownloadsRemaining <= 0 {
		return 0, domain.ErrQuotaExhausted
	}
	a.DownloadsRemaining--
	now := time.Now()
	a.LastDownloadedAt = &now
	return a.DownloadsRemaining, nil
}

func (m *MockEntitlementRepo) Find(ctx context.Context, tx repository.Tx, userID, productID string) (*model.ProductAccess, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[entitlementKey{userID, productID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// --- Products ---

type MockProductRepo struct {
	mu    sync.Mutex
	store map[string]*model.Product
}

func NewMockProductRepo() *MockProductRepo {
	return &MockProductRepo{store: make(map[string]*model.Product)}
}

func (m *MockProductRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockProductRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductRepo) IncrementDownloadCount(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.DownloadCount++
	return nil
}

// --- Download tokens ---

type MockTokenRepo struct {
	mu    sync.Mutex
	store map[string]*model.DownloadToken
	logs  []*model.DownloadLog
}

func NewMockTokenRepo() *MockTokenRepo {
	return &MockTokenRepo{store: make(map[string]*model.DownloadToken)}
}

func (m *MockTokenRepo) Save(ctx context.Context, tx repository.Tx, t *model.DownloadToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.store[t.Token] = &cp
	return nil
}

func (m *MockTokenRepo) Find(ctx context.Context, tx repository.Tx, token string) (*model.DownloadToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockTokenRepo) Redeem(ctx context.Context, tx repository.Tx, token string) (*model.DownloadToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	if t.Expired(now) {
		return nil, domain.ErrTokenExpired
	}
	if t.Exhausted() {
		return nil, domain.ErrQuotaExhausted
	}
	t.DownloadCount++
	cp := *t
	return &cp, nil
}

func (m *MockTokenRepo) AppendLog(ctx context.Context, tx repository.Tx, l *model.DownloadLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.logs = append(m.logs, &cp)
	return nil
}

func (m *MockTokenRepo) LogCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

// --- Locker ---

type MockLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func NewMockLocker() *MockLocker {
	return &MockLocker{held: make(map[string]string)}
}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.held[key]; held {
		return "", domain.ErrOperationFailed
	}
	m.held[key] = key
	return key, nil
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, key)
	return nil
}

// --- Notifier ---

type MockNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (m *MockNotifier) NotifySale(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, text)
	return nil
}

func (m *MockNotifier) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// --- Payment gateway ---

type MockPaymentGateway struct {
	VerifyFunc func(ctx context.Context, reference string) (*model.PaymentEvent, error)
}

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) VerifyReference(ctx context.Context, reference string) (*model.PaymentEvent, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, reference)
	}
	return nil, domain.ErrPaymentNotVerified
}
