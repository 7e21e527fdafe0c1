package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"service-order/internal/entities"
	"service-order/internal/repositories"
	"service-order/internal/workflow"
	apperrors "service-order/pkg/errors"
)

// --- кеш ---

type fakeCache struct {
	mu        sync.Mutex
	data      map[string]string
	expires   map[string]time.Time
	failSetNX bool
	failGet   bool
	gets      int
	extends   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string), expires: make(map[string]time.Time)}
}

// evict убирает ключ с истёкшим TTL. Вызывается под mu.
func (c *fakeCache) evict(key string) {
	if at, ok := c.expires[key]; ok && !time.Now().Before(at) {
		delete(c.data, key)
		delete(c.expires, key)
	}
}

func (c *fakeCache) setLocked(key, value string, ttl time.Duration) {
	c.data[key] = value
	if ttl > 0 {
		c.expires[key] = time.Now().Add(ttl)
	} else {
		delete(c.expires, key)
	}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value.(string), ttl)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return "", errors.New("redis недоступен")
	}
	c.evict(key)
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		delete(c.expires, k)
	}
	return nil
}

func (c *fakeCache) SetNX(_ context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSetNX {
		return false, errors.New("redis недоступен")
	}
	c.evict(key)
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.setLocked(key, value.(string), ttl)
	return true, nil
}

func (c *fakeCache) CompareAndDelete(_ context.Context, key, expected string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evict(key)
	if v, ok := c.data[key]; ok && v == expected {
		delete(c.data, key)
		delete(c.expires, key)
		return true, nil
	}
	return false, nil
}

func (c *fakeCache) CompareAndExpire(_ context.Context, key, expected string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evict(key)
	if v, ok := c.data[key]; ok && v == expected {
		c.expires[key] = time.Now().Add(ttl)
		c.extends++
		return true, nil
	}
	return false, nil
}

func (c *fakeCache) extendCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extends
}

// --- хранилище заявок ---

type fakeOrderStore struct {
	mu      sync.Mutex
	orders  map[uint64]*entities.ServiceOrder
	history []entities.StatusChange

	findDelay time.Duration
	casErr    error
	// beforeCAS вызывается перед сравнением, чтобы имитировать параллельную запись
	beforeCAS func(store *fakeOrderStore, attempt int)
	casCalls  int
}

func newFakeOrderStore(orders ...*entities.ServiceOrder) *fakeOrderStore {
	s := &fakeOrderStore{orders: make(map[uint64]*entities.ServiceOrder)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *fakeOrderStore) FindByID(ctx context.Context, id uint64) (*entities.ServiceOrder, error) {
	if s.findDelay > 0 {
		select {
		case <-time.After(s.findDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *o
	cp.Items = append([]entities.ServiceItem(nil), o.Items...)
	return &cp, nil
}

func (s *fakeOrderStore) CompareAndSetStatus(_ context.Context, change entities.StatusChange) (bool, error) {
	s.mu.Lock()
	s.casCalls++
	attempt := s.casCalls
	hook := s.beforeCAS
	s.mu.Unlock()

	if hook != nil {
		hook(s, attempt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.casErr != nil {
		return false, s.casErr
	}
	o, ok := s.orders[change.OrderID]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if o.Status != change.Expected {
		return false, nil
	}
	o.Status = change.New
	s.history = append(s.history, change)
	return true, nil
}

func (s *fakeOrderStore) setStatus(id uint64, status workflow.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[id].Status = status
}

func (s *fakeOrderStore) status(id uint64) workflow.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].Status
}

func (s *fakeOrderStore) changes() []entities.StatusChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.StatusChange(nil), s.history...)
}

// --- поставщик обязательных действий ---

type fakeActionProvider struct {
	configs map[string]*entities.RequiredActionConfig
	err     error
}

func (p *fakeActionProvider) Lookup(_ context.Context, from, to workflow.Status, attendance workflow.AttendanceType) (*entities.RequiredActionConfig, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.configs[requiredActionCacheKey(from, to, attendance)], nil
}

type fakeRequiredActionRepo struct {
	mu      sync.Mutex
	configs map[string]*entities.RequiredActionConfig
	calls   int
}

func (r *fakeRequiredActionRepo) FindActive(_ context.Context, from, to workflow.Status, attendance workflow.AttendanceType) (*entities.RequiredActionConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.configs[requiredActionCacheKey(from, to, attendance)], nil
}

func (r *fakeRequiredActionRepo) Upsert(_ context.Context, cfg *entities.RequiredActionConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.configs == nil {
		r.configs = make(map[string]*entities.RequiredActionConfig)
	}
	r.configs[requiredActionCacheKey(cfg.FromStatus, cfg.ToStatus, cfg.AttendanceType)] = cfg
	return nil
}

// --- побочные действия ---

// recorder собирает вызовы всех хуков в общем порядке.
type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	panic map[string]bool
	block map[string]bool
}

func newRecorder() *recorder {
	return &recorder{fail: map[string]error{}, panic: map[string]bool{}, block: map[string]bool{}}
}

func (r *recorder) hit(ctx context.Context, name string) error {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	err, doPanic, doBlock := r.fail[name], r.panic[name], r.block[name]
	r.mu.Unlock()

	if doPanic {
		panic("сбой " + name)
	}
	if doBlock {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type recordingPayment struct{ r *recorder }

func (p recordingPayment) Resolve(ctx context.Context, _ *entities.ServiceOrder, _ workflow.Status) (*entities.PaymentStageOutcome, error) {
	return nil, p.r.hit(ctx, HookPaymentStage)
}

type recordingWarranty struct{ r *recorder }

func (w recordingWarranty) ActivateIfEligible(ctx context.Context, _ *entities.ServiceOrder, _ workflow.Status) (bool, error) {
	return true, w.r.hit(ctx, HookWarranty)
}

type recordingCheckin struct{ r *recorder }

func (c recordingCheckin) Checkin(ctx context.Context, _, _ uint64) error {
	return c.r.hit(ctx, HookCheckin)
}

func (c recordingCheckin) Checkout(ctx context.Context, _, _ uint64) error {
	return c.r.hit(ctx, HookCheckout)
}

type recordingRating struct{ r *recorder }

func (rr recordingRating) Request(ctx context.Context, _ uint64) error {
	return rr.r.hit(ctx, HookRating)
}

type recordingNotifications struct {
	r  *recorder
	mu sync.Mutex
	n  []entities.Notification
}

func (s *recordingNotifications) Record(ctx context.Context, n entities.Notification) error {
	s.mu.Lock()
	s.n = append(s.n, n)
	s.mu.Unlock()
	return s.r.hit(ctx, HookNotification)
}

func (s *recordingNotifications) All() []entities.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Notification(nil), s.n...)
}

func recordingHooks(r *recorder) (TransitionHooks, *recordingNotifications) {
	notifications := &recordingNotifications{r: r}
	return TransitionHooks{
		Payment:       recordingPayment{r},
		Warranty:      recordingWarranty{r},
		Checkin:       recordingCheckin{r},
		Rating:        recordingRating{r},
		Notifications: notifications,
	}, notifications
}

// --- репозитории побочных действий ---

type fakePaymentStageRepo struct {
	mu       sync.Mutex
	configs  map[string]*entities.PaymentStageConfig
	records  []entities.PaymentStageRecord
	findErr  error
	recorded map[[2]uint64]bool
}

func newFakePaymentStageRepo() *fakePaymentStageRepo {
	return &fakePaymentStageRepo{configs: map[string]*entities.PaymentStageConfig{}, recorded: map[[2]uint64]bool{}}
}

func (r *fakePaymentStageRepo) FindActiveConfig(_ context.Context, attendance workflow.AttendanceType, status workflow.Status) (*entities.PaymentStageConfig, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.configs[string(attendance)+":"+string(status)], nil
}

func (r *fakePaymentStageRepo) Record(_ context.Context, rec *entities.PaymentStageRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]uint64{rec.OrderID, rec.ConfigID}
	if r.recorded[key] {
		return false, nil
	}
	r.recorded[key] = true
	r.records = append(r.records, *rec)
	return true, nil
}

func (r *fakePaymentStageRepo) UpsertConfig(_ context.Context, cfg *entities.PaymentStageConfig) error {
	r.configs[string(cfg.AttendanceType)+":"+string(cfg.Status)] = cfg
	return nil
}

type fakeWarrantyRepo struct {
	mu       sync.Mutex
	byItem   map[uint64]entities.Warranty
	batchErr error
}

func newFakeWarrantyRepo() *fakeWarrantyRepo {
	return &fakeWarrantyRepo{byItem: map[uint64]entities.Warranty{}}
}

func (r *fakeWarrantyRepo) CreateBatch(_ context.Context, warranties []entities.Warranty) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.batchErr != nil {
		return 0, r.batchErr
	}
	created := 0
	for _, w := range warranties {
		if _, ok := r.byItem[w.ItemID]; ok {
			continue
		}
		r.byItem[w.ItemID] = w
		created++
	}
	return created, nil
}

func (r *fakeWarrantyRepo) FindByOrderID(_ context.Context, orderID uint64) ([]entities.Warranty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Warranty
	for _, w := range r.byItem {
		if w.OrderID == orderID {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeCheckinRepo struct {
	mu       sync.Mutex
	checkins []entities.TechnicianCheckin
}

func (r *fakeCheckinRepo) Create(_ context.Context, c *entities.TechnicianCheckin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkins = append(r.checkins, *c)
	return nil
}

type fakeRatingRepo struct {
	mu     sync.Mutex
	orders map[uint64]bool
}

func (r *fakeRatingRepo) Create(_ context.Context, req *entities.RatingRequest) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.orders == nil {
		r.orders = map[uint64]bool{}
	}
	if r.orders[req.OrderID] {
		return false, nil
	}
	r.orders[req.OrderID] = true
	return true, nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	saved []entities.Notification
	err   error
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entities.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	n.CreatedAt = time.Now()
	r.saved = append(r.saved, *n)
	return nil
}

type fakeHistoryRepo struct {
	records []entities.OrderHistory
	err     error
}

func (r *fakeHistoryRepo) CreateInTx(_ context.Context, _ pgx.Tx, h *entities.OrderHistory) error {
	h.ID = uint64(len(r.records) + 1)
	r.records = append(r.records, *h)
	return nil
}

func (r *fakeHistoryRepo) FindByOrderID(_ context.Context, orderID uint64, limit, offset uint64) ([]entities.OrderHistory, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []entities.OrderHistory
	for _, h := range r.records {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	if offset >= uint64(len(out)) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < uint64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}
