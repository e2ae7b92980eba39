package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	directoryRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/directory"
	"github.com/m04kA/SMC-CourtBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-CourtBooking/internal/integrations/userservice"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

const (
	customerID = int64(42)
	ownerID    = int64(7)
	strangerID = int64(99)
)

var (
	customer = domain.Caller{ID: customerID, Role: domain.RoleCustomer}
	owner    = domain.Caller{ID: ownerID, Role: domain.RoleOwner}
	stranger = domain.Caller{ID: strangerID, Role: domain.RoleCustomer}

	now = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
)

// fakeStore implements the repositories and the transaction manager
type fakeStore struct {
	bookings map[int64]*domain.Booking
	payments map[int64]domain.PaymentStatus
	slots    map[int64]int64 // booking id -> slot count
	revenue  []domain.RevenueRow
	filters  []domain.BookingListFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[int64]*domain.Booking),
		payments: make(map[int64]domain.PaymentStatus),
		slots:    make(map[int64]int64),
	}
}

func (s *fakeStore) add(id int64, status domain.BookingStatus, age time.Duration) {
	s.bookings[id] = &domain.Booking{
		ID:            id,
		FieldID:       10,
		UserID:        customerID,
		TotalPrice:    250000,
		CustomerName:  "Nguyen Van A",
		CustomerPhone: "0901234567",
		BookingDate:   time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Status:        status,
		CreatedAt:     now.Add(-age),
		Courts: []domain.BookingCourt{
			{ID: 1, BookingID: id, CourtID: 2, CourtName: "Court 2", StartTime: "18:00", EndTime: "19:00", Price: 100000},
			{ID: 2, BookingID: id, CourtID: 1, CourtName: "Court 1", StartTime: "18:00", EndTime: "19:00", Price: 100000},
			{ID: 3, BookingID: id, CourtID: 2, CourtName: "Court 2", StartTime: "20:00", EndTime: "20:30", Price: 50000},
		},
	}
	s.payments[id] = domain.PaymentPending
	s.slots[id] = 5
}

func (s *fakeStore) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStore) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) ListByUser(_ context.Context, userID int64, filter domain.BookingListFilter) ([]*domain.Booking, error) {
	s.filters = append(s.filters, filter)
	var out []*domain.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) ListByOwner(_ context.Context, _ int64, filter domain.BookingListFilter) ([]*domain.Booking, error) {
	s.filters = append(s.filters, filter)
	return nil, nil
}

func (s *fakeStore) SumCompletedByUser(_ context.Context, userID int64) (int64, error) {
	var total int64
	for _, b := range s.bookings {
		if b.UserID == userID && b.Status == domain.StatusCompleted {
			total += b.TotalPrice
		}
	}
	return total, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (s *fakeStore) ListRevenueRows(context.Context, domain.RevenueFilter) ([]domain.RevenueRow, error) {
	return s.revenue, nil
}

func (s *fakeStore) UpdateStatusByBooking(_ context.Context, bookingID int64, status domain.PaymentStatus) error {
	s.payments[bookingID] = status
	return nil
}

func (s *fakeStore) DeleteByBooking(_ context.Context, bookingID int64) (int64, error) {
	n := s.slots[bookingID]
	s.slots[bookingID] = 0
	return n, nil
}

func (s *fakeStore) GetFieldWithVenue(_ context.Context, fieldID int64) (*domain.FieldWithVenue, error) {
	if fieldID != 10 {
		return nil, directoryRepo.ErrFieldNotFound
	}
	return &domain.FieldWithVenue{
		Field: domain.Field{ID: 10, VenueID: 100, Name: "Main"},
		Venue: domain.Venue{ID: 100, OwnerID: ownerID, Name: "Arena", BankName: "MBBank", BankAccount: "0123456789", BankHolder: "ARENA"},
	}, nil
}

type fakeUsers struct{ err error }

func (u fakeUsers) GetUserWithGracefulDegradation(_ context.Context, id int64) (*userservice.User, error) {
	if u.err != nil {
		return nil, u.err
	}
	return &userservice.User{ID: id, Email: "owner@arena.vn"}, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []*notifier.BookingConfirmed
}

func (n *fakeNotifier) PublishBookingConfirmed(_ context.Context, msg *notifier.BookingConfirmed) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counts: make(map[string]int)}
}

func (m *fakeMetrics) inc(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *fakeMetrics) get(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}

func (m *fakeMetrics) IncBookingTransition(to string) { m.inc("transition:" + to) }
func (m *fakeMetrics) IncNotification(result string)  { m.inc("notification:" + result) }
func (m *fakeMetrics) IncCacheRequest(result string)  { m.inc("cache:" + result) }

type fakeCache struct {
	set     []string
	deleted []string
}

func (c *fakeCache) GetJSON(context.Context, string, any) (bool, error) {
	return false, nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, _ any) error {
	c.set = append(c.set, key)
	return nil
}

func (c *fakeCache) DeletePrefix(_ context.Context, prefix string) (int64, error) {
	c.deleted = append(c.deleted, prefix)
	return 1, nil
}

func newTestService(store *fakeStore, opts ...Option) *Service {
	s := NewService(store, store, store, store, store, 7, nopLogger{}, opts...)
	s.timeProvider = fixedTime{now: now}
	return s
}

func TestConfirm(t *testing.T) {
	t.Run("within payment window notifies owner", func(t *testing.T) {
		store := newFakeStore()
		store.add(1, domain.StatusPending, 10*time.Minute)
		n := &fakeNotifier{}
		m := newFakeMetrics()
		svc := newTestService(store, WithNotifier(fakeUsers{}, n), WithMetrics(m))

		resp, err := svc.Confirm(context.Background(), customer, 1)
		svc.Wait()

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.Equal(t, domain.DisplayAwaitingOwnerConfirmation, resp.DisplayStatus)
		assert.Equal(t, domain.StatusConfirmed, store.bookings[1].Status)

		require.Len(t, n.sent, 1)
		msg := n.sent[0]
		assert.Equal(t, "owner@arena.vn", msg.OwnerEmail)
		assert.Equal(t, "Arena", msg.VenueName)
		require.Len(t, msg.Courts, 2)
		assert.Equal(t, int64(2), msg.Courts[0].CourtID)
		assert.Equal(t, []string{"18:00 - 19:00", "20:00 - 20:30"}, msg.Courts[0].Ranges)
		assert.Equal(t, []string{"18:00 - 19:00"}, msg.Courts[1].Ranges)

		assert.Equal(t, 1, m.get("transition:confirmed"))
		assert.Equal(t, 1, m.get("notification:sent"))
	})

	t.Run("after 31 minutes cancels and reports overdue", func(t *testing.T) {
		store := newFakeStore()
		store.add(1, domain.StatusPending, 31*time.Minute)
		n := &fakeNotifier{}
		svc := newTestService(store, WithNotifier(fakeUsers{}, n))

		resp, err := svc.Confirm(context.Background(), customer, 1)
		svc.Wait()

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrPaymentOverdue)
		assert.Equal(t, domain.StatusCancelled, store.bookings[1].Status)
		assert.Equal(t, domain.PaymentFailed, store.payments[1])
		assert.Zero(t, store.slots[1])
		assert.Empty(t, n.sent)
	})

	t.Run("notification failure does not fail confirm", func(t *testing.T) {
		store := newFakeStore()
		store.add(1, domain.StatusPending, time.Minute)
		m := newFakeMetrics()
		svc := newTestService(store,
			WithNotifier(fakeUsers{err: userservice.ErrServiceDegraded}, &fakeNotifier{}),
			WithMetrics(m),
		)

		_, err := svc.Confirm(context.Background(), customer, 1)
		svc.Wait()

		require.NoError(t, err)
		assert.Equal(t, 1, m.get("notification:failed"))
	})

	tests := []struct {
		name    string
		status  domain.BookingStatus
		caller  domain.Caller
		wantErr error
	}{
		{"stranger", domain.StatusPending, stranger, domain.ErrUnauthorized},
		{"owner is not the creator", domain.StatusPending, owner, domain.ErrUnauthorized},
		{"already confirmed", domain.StatusConfirmed, customer, domain.ErrAlreadyConfirmed},
		{"already completed", domain.StatusCompleted, customer, domain.ErrAlreadyCompleted},
		{"cancelled", domain.StatusCancelled, customer, domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.add(1, tt.status, time.Minute)
			svc := newTestService(store)

			_, err := svc.Confirm(context.Background(), tt.caller, 1)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.status, store.bookings[1].Status)
		})
	}

	t.Run("unknown booking", func(t *testing.T) {
		svc := newTestService(newFakeStore())
		_, err := svc.Confirm(context.Background(), customer, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCancel(t *testing.T) {
	t.Run("stranger is rejected and status is unchanged", func(t *testing.T) {
		store := newFakeStore()
		store.add(1, domain.StatusPending, time.Minute)
		svc := newTestService(store)

		_, err := svc.Cancel(context.Background(), stranger, 1)

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, domain.StatusPending, store.bookings[1].Status)
		assert.Equal(t, domain.PaymentPending, store.payments[1])
		assert.Equal(t, int64(5), store.slots[1])
	})

	for _, caller := range []domain.Caller{customer, owner} {
		t.Run("by "+caller.Role, func(t *testing.T) {
			store := newFakeStore()
			store.add(1, domain.StatusPending, time.Minute)
			svc := newTestService(store)

			resp, err := svc.Cancel(context.Background(), caller, 1)

			require.NoError(t, err)
			assert.Equal(t, domain.DisplayCancelled, resp.DisplayStatus)
			assert.Equal(t, domain.StatusCancelled, store.bookings[1].Status)
			assert.Equal(t, domain.PaymentFailed, store.payments[1])
			assert.Zero(t, store.slots[1])
		})
	}

	t.Run("confirmed booking is not cancellable", func(t *testing.T) {
		store := newFakeStore()
		store.add(1, domain.StatusConfirmed, time.Minute)
		svc := newTestService(store)

		_, err := svc.Cancel(context.Background(), customer, 1)

		assert.ErrorIs(t, err, domain.ErrNotCancellable)
		assert.Equal(t, domain.StatusConfirmed, store.bookings[1].Status)
	})
}

func TestComplete(t *testing.T) {
	t.Run("owner completes confirmed booking", func(t *testing.T) {
		store := newFakeStore()
		store.add(1, domain.StatusConfirmed, time.Hour)
		c := &fakeCache{}
		svc := newTestService(store, WithRevenueCache(c))

		resp, err := svc.Complete(context.Background(), owner, 1)

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCompleted), resp.Status)
		assert.Equal(t, domain.PaymentPaid, store.payments[1])
		assert.Equal(t, []string{"revenue:7:"}, c.deleted)
	})

	tests := []struct {
		name    string
		status  domain.BookingStatus
		caller  domain.Caller
		wantErr error
	}{
		{"customer", domain.StatusConfirmed, customer, domain.ErrUnauthorized},
		{"pending", domain.StatusPending, owner, domain.ErrInvalidTransition},
		{"cancelled", domain.StatusCancelled, owner, domain.ErrInvalidTransition},
		{"already completed", domain.StatusCompleted, owner, domain.ErrAlreadyCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.add(1, tt.status, time.Hour)
			svc := newTestService(store)

			_, err := svc.Complete(context.Background(), tt.caller, 1)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.status, store.bookings[1].Status)
		})
	}
}

func TestGetPaymentQRCode(t *testing.T) {
	store := newFakeStore()
	store.add(1, domain.StatusPending, time.Minute)
	store.add(2, domain.StatusConfirmed, time.Minute)
	svc := newTestService(store)

	qr, err := svc.GetPaymentQRCode(context.Background(), customer, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), qr.Amount)
	assert.Equal(t, "Thanh Toan Don 1", qr.Message)
	assert.Equal(t, "https://img.vietqr.io/image/MBBank-0123456789-compact2.jpg?amount=250000&addInfo=Thanh+Toan+Don+1", qr.QRCodeURL)

	_, err = svc.GetPaymentQRCode(context.Background(), customer, 2)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	_, err = svc.GetPaymentQRCode(context.Background(), owner, 1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGetBooking(t *testing.T) {
	store := newFakeStore()
	store.add(1, domain.StatusPending, 20*time.Minute)
	svc := newTestService(store)

	resp, err := svc.GetBooking(context.Background(), owner, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DisplayExpired, resp.DisplayStatus)
	assert.Len(t, resp.Courts, 3)

	_, err = svc.GetBooking(context.Background(), stranger, 1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListUserBookings(t *testing.T) {
	store := newFakeStore()
	store.add(1, domain.StatusCompleted, time.Hour)
	store.add(2, domain.StatusPending, time.Minute)
	svc := newTestService(store)

	resp, err := svc.ListUserBookings(context.Background(), customer, 3)

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, 7, resp.PageSize)
	require.NotNil(t, resp.TotalCompleted)
	assert.Equal(t, int64(250000), *resp.TotalCompleted)
	assert.Equal(t, domain.BookingListFilter{Limit: 7, Offset: 14}, store.filters[0])

	_, err = svc.ListOwnerBookings(context.Background(), owner, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingListFilter{Limit: 7, Offset: 0}, store.filters[1])
}

func TestAggregateRevenue(t *testing.T) {
	rows := []domain.RevenueRow{
		{VenueID: 1, VenueName: "A", FieldID: 10, FieldName: "F10", CourtID: 100, CourtName: "C100", Price: 100},
		{VenueID: 1, VenueName: "A", FieldID: 10, FieldName: "F10", CourtID: 100, CourtName: "C100", Price: 50},
		{VenueID: 1, VenueName: "A", FieldID: 10, FieldName: "F10", CourtID: 101, CourtName: "C101", Price: 30},
		{VenueID: 1, VenueName: "A", FieldID: 11, FieldName: "F11", CourtID: 110, CourtName: "C110", Price: 20},
		{VenueID: 2, VenueName: "B", FieldID: 20, FieldName: "F20", CourtID: 200, CourtName: "C200", Price: 500},
	}
	for i := int64(3); i <= 7; i++ {
		rows = append(rows, domain.RevenueRow{VenueID: i, VenueName: "V", FieldID: i * 10, CourtID: i * 100, Price: i})
	}

	stats := aggregateRevenue(rows)

	assert.Equal(t, int64(700+3+4+5+6+7), stats.Total)
	require.Len(t, stats.Venues, 7)

	a := stats.Venues[0]
	assert.Equal(t, int64(200), a.Revenue)
	require.Len(t, a.Fields, 2)
	assert.Equal(t, int64(180), a.Fields[0].Revenue)
	assert.Equal(t, []int64{150, 30}, []int64{a.Fields[0].Courts[0].Revenue, a.Fields[0].Courts[1].Revenue})

	require.Len(t, stats.TopVenues, domain.TopVenuesLimit)
	assert.Equal(t, int64(2), stats.TopVenues[0].VenueID)
	assert.Equal(t, int64(1), stats.TopVenues[1].VenueID)
	assert.Equal(t, int64(7), stats.TopVenues[2].VenueID)
	assert.Equal(t, int64(5), stats.TopVenues[4].VenueID)
}

func TestRevenueStats(t *testing.T) {
	store := newFakeStore()
	store.revenue = []domain.RevenueRow{
		{VenueID: 1, VenueName: "A", FieldID: 10, CourtID: 100, Price: 100},
	}
	c := &fakeCache{}
	m := newFakeMetrics()
	svc := newTestService(store, WithRevenueCache(c), WithMetrics(m))

	month := 6
	stats, err := svc.RevenueStats(context.Background(), owner, 2025, &month)
	require.NoError(t, err)
	assert.Equal(t, int64(100), stats.Total)
	assert.Equal(t, ownerID, stats.OwnerID)
	assert.Equal(t, []string{"revenue:7:2025:06"}, c.set)
	assert.Equal(t, 1, m.get("cache:miss"))

	bad := 13
	_, err = svc.RevenueStats(context.Background(), owner, 2025, &bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, "revenue:7:2025:06", revenueCacheKey(7, 2025, &month))
	assert.Equal(t, "revenue:7:2025:all", revenueCacheKey(7, 2025, nil))
}

func TestRevenueStats_CacheFailureFallsBackToStorage(t *testing.T) {
	store := newFakeStore()
	store.revenue = []domain.RevenueRow{{VenueID: 1, FieldID: 10, CourtID: 100, Price: 100}}
	m := newFakeMetrics()
	svc := newTestService(store, WithRevenueCache(failingCache{}), WithMetrics(m))

	stats, err := svc.RevenueStats(context.Background(), owner, 2025, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(100), stats.Total)
	assert.Equal(t, 1, m.get("cache:error"))
}

type failingCache struct{}

func (failingCache) GetJSON(context.Context, string, any) (bool, error) {
	return false, errors.New("redis down")
}
func (failingCache) SetJSON(context.Context, string, any) error { return errors.New("redis down") }
func (failingCache) DeletePrefix(context.Context, string) (int64, error) {
	return 0, errors.New("redis down")
}
