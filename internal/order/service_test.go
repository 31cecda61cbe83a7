package order

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/models"
)

// Mock implementations for testing

type MockOrderDB struct {
	orders       map[int64]*models.Order
	nextID       int64
	overlaps     bool
	shouldFailOn string
	errorMsg     string
}

func NewMockOrderDB() *MockOrderDB {
	return &MockOrderDB{orders: make(map[int64]*models.Order), nextID: 1}
}

func (m *MockOrderDB) CreateOrder(order *models.Order) error {
	if m.shouldFailOn == "CreateOrder" {
		return errors.New(m.errorMsg)
	}
	order.ID = m.nextID
	m.nextID++
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *MockOrderDB) GetOrderByID(id int64) (*models.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, models.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *MockOrderDB) GetOrderByReference(ref string) (*models.Order, error) {
	for _, order := range m.orders {
		if order.BookingReference == ref {
			copied := *order
			return &copied, nil
		}
	}
	return nil, models.ErrOrderNotFound
}

func (m *MockOrderDB) GetAllOrders() ([]models.Order, error) {
	var out []models.Order
	for _, order := range m.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (m *MockOrderDB) GetOrdersByUser(userID int64) ([]models.Order, error) {
	var out []models.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *MockOrderDB) UpdateOrder(order *models.Order) error {
	if m.shouldFailOn == "UpdateOrder" {
		return errors.New(m.errorMsg)
	}
	if _, exists := m.orders[order.ID]; !exists {
		return models.ErrOrderNotFound
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *MockOrderDB) HasOverlap(vehicleID int64, start, end time.Time) (bool, error) {
	if m.shouldFailOn == "HasOverlap" {
		return false, errors.New(m.errorMsg)
	}
	return m.overlaps, nil
}

type MockVehicleStore struct {
	vehicles     map[int64]*models.Vehicle
	availability map[int64]bool
}

func NewMockVehicleStore() *MockVehicleStore {
	return &MockVehicleStore{
		vehicles:     make(map[int64]*models.Vehicle),
		availability: make(map[int64]bool),
	}
}

func (m *MockVehicleStore) GetVehicleByID(id int64) (*models.Vehicle, error) {
	vehicle, exists := m.vehicles[id]
	if !exists {
		return nil, models.ErrVehicleNotFound
	}
	copied := *vehicle
	return &copied, nil
}

func (m *MockVehicleStore) SetAvailability(id int64, available bool) error {
	m.availability[id] = available
	if v, exists := m.vehicles[id]; exists {
		v.Available = available
	}
	return nil
}

type MockUserStore struct {
	users map[int64]*models.User
}

func (m *MockUserStore) GetUserByID(id int64) (*models.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

type MockLock struct {
	denyLock  bool
	lockCalls int
	unlocked  bool
}

func (m *MockLock) LockVehicle(vehicleID int64, token string) (bool, error) {
	m.lockCalls++
	return !m.denyLock, nil
}

func (m *MockLock) UnlockVehicle(vehicleID int64, token string) error {
	m.unlocked = true
	return nil
}

type MockMailer struct {
	sent       []string
	shouldFail bool
}

func (m *MockMailer) SendBookingConfirmation(toEmail, bookingReference, qrImageSrc string) error {
	if m.shouldFail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, bookingReference)
	return nil
}

type MockPublisher struct {
	published []string
}

func (m *MockPublisher) Publish(topic string, key string, value []byte) error {
	m.published = append(m.published, topic)
	return nil
}

type serviceFixture struct {
	svc      *OrderService
	db       *MockOrderDB
	vehicles *MockVehicleStore
	users    *MockUserStore
	lock     *MockLock
	mailer   *MockMailer
	events   *MockPublisher
}

func newFixture() *serviceFixture {
	db := NewMockOrderDB()
	vehicles := NewMockVehicleStore()
	vehicles.vehicles[1] = &models.Vehicle{
		ID: 1, Make: "Audi", Model: "A6", PricePerDay: 100.0, Available: true, Active: true,
	}
	users := &MockUserStore{users: map[int64]*models.User{
		7: {ID: 7, Email: "driver@example.com", Role: "User", Active: true},
	}}
	lock := &MockLock{}
	mailer := &MockMailer{}
	events := &MockPublisher{}

	svc := NewOrderService(db, vehicles, users, lock, mailer, events,
		Topics{OrderCreated: "rentals.order.created", OrderCancelled: "rentals.order.cancelled"},
		logger.NewLogger())
	return &serviceFixture{svc: svc, db: db, vehicles: vehicles, users: users, lock: lock, mailer: mailer, events: events}
}

func request(start, end time.Time) models.CreateOrderRequest {
	return models.CreateOrderRequest{UserID: 7, VehicleID: 1, StartTime: start, EndTime: end}
}

func TestCreateOrderTwoDayRental(t *testing.T) {
	f := newFixture()
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	order, err := f.svc.CreateOrder(request(start, end))
	require.NoError(t, err)

	assert.Equal(t, 200.0, order.TotalCost)
	assert.Equal(t, 100.0, order.PricePerDay)
	assert.Regexp(t, regexp.MustCompile(`^PR-[A-Z0-9]{8}$`), order.BookingReference)

	expectedPayload := fmt.Sprintf("BookingRef:%s;VehicleId:1;Start:2024-06-01T10:00:00Z;End:2024-06-03T10:00:00Z", order.BookingReference)
	assert.Equal(t, expectedPayload, order.QRCodeData)
	assert.Contains(t, order.QRCodeBase64Image, "data:image/png;base64,")

	assert.True(t, f.lock.unlocked, "vehicle lock should be released after booking")
	assert.Equal(t, []string{order.BookingReference}, f.mailer.sent)
	assert.Equal(t, []string{"rentals.order.created"}, f.events.published)
}

func TestCreateOrderPartialDayChargedAsFullDay(t *testing.T) {
	f := newFixture()
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(25 * time.Hour)

	order, err := f.svc.CreateOrder(request(start, end))
	require.NoError(t, err)
	assert.Equal(t, 200.0, order.TotalCost, "25 hours should be charged as two days")
}

func TestCreateOrderExactDayBoundary(t *testing.T) {
	f := newFixture()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	order, err := f.svc.CreateOrder(request(start, start.Add(24*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, 100.0, order.TotalCost)
}

func TestCreateOrderRejectsInvalidTimeRange(t *testing.T) {
	f := newFixture()
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	_, err := f.svc.CreateOrder(request(start, start))
	assert.ErrorIs(t, err, models.ErrInvalidTimeRange)

	_, err = f.svc.CreateOrder(request(start, start.Add(-time.Hour)))
	assert.ErrorIs(t, err, models.ErrInvalidTimeRange)
}

func TestCreateOrderRejectsUnknownVehicle(t *testing.T) {
	f := newFixture()
	req := request(time.Now(), time.Now().Add(24*time.Hour))
	req.VehicleID = 99

	_, err := f.svc.CreateOrder(req)
	assert.ErrorIs(t, err, models.ErrVehicleNotFound)
}

func TestCreateOrderRejectsUnavailableVehicle(t *testing.T) {
	f := newFixture()
	f.vehicles.vehicles[1].Available = false

	_, err := f.svc.CreateOrder(request(time.Now(), time.Now().Add(24*time.Hour)))
	assert.ErrorIs(t, err, models.ErrVehicleUnavailable)
	assert.Zero(t, f.lock.lockCalls, "lock should not be taken when the pre-check fails")
}

func TestCreateOrderRejectsUserWithoutEmail(t *testing.T) {
	f := newFixture()
	f.users.users[7].Email = ""

	_, err := f.svc.CreateOrder(request(time.Now(), time.Now().Add(24*time.Hour)))
	assert.ErrorIs(t, err, models.ErrUserEmailMissing)
	assert.Empty(t, f.db.orders, "no order should be inserted for a user without email")
}

func TestCreateOrderConflictOnOverlap(t *testing.T) {
	f := newFixture()
	f.db.overlaps = true

	_, err := f.svc.CreateOrder(request(time.Now(), time.Now().Add(24*time.Hour)))
	assert.ErrorIs(t, err, models.ErrBookingConflict)
	assert.True(t, f.lock.unlocked, "lock must be released on conflict")
}

func TestCreateOrderConflictWhenLockHeld(t *testing.T) {
	f := newFixture()
	f.lock.denyLock = true

	_, err := f.svc.CreateOrder(request(time.Now(), time.Now().Add(24*time.Hour)))
	assert.ErrorIs(t, err, models.ErrBookingConflict)
}

func TestCreateOrderSurvivesMailFailure(t *testing.T) {
	f := newFixture()
	f.mailer.shouldFail = true

	order, err := f.svc.CreateOrder(request(time.Now(), time.Now().Add(24*time.Hour)))
	require.NoError(t, err, "a failed confirmation mail must not unwind the booking")
	assert.NotZero(t, order.ID)
	assert.Len(t, f.db.orders, 1)
}

func TestCancelOrderReopensVehicle(t *testing.T) {
	f := newFixture()
	order, err := f.svc.CreateOrder(request(time.Now(), time.Now().Add(24*time.Hour)))
	require.NoError(t, err)

	f.vehicles.availability[1] = false

	cancelled, err := f.svc.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.True(t, cancelled)

	stored, err := f.db.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCancelled)
	assert.True(t, f.vehicles.availability[1], "cancel must reopen the vehicle immediately")
	assert.Contains(t, f.events.published, "rentals.order.cancelled")
}

func TestCancelOrderUnknownID(t *testing.T) {
	f := newFixture()

	cancelled, err := f.svc.CancelOrder(42)
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestMockPaymentReturnsBookingArtifacts(t *testing.T) {
	f := newFixture()
	order, err := f.svc.CreateOrder(request(time.Now(), time.Now().Add(24*time.Hour)))
	require.NoError(t, err)

	result, err := f.svc.MockPayment(models.PaymentRequest{OrderID: order.ID})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, order.BookingReference, result.BookingReference)
	assert.Equal(t, order.QRCodeData, result.QRCodeData)
}

func TestBookingReferencesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		ref := generateBookingReference()
		assert.Regexp(t, regexp.MustCompile(`^PR-[A-Z0-9]{8}$`), ref)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestRentalDays(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		hours time.Duration
		days  int64
	}{
		{1 * time.Hour, 1},
		{24 * time.Hour, 1},
		{25 * time.Hour, 2},
		{48 * time.Hour, 2},
		{72 * time.Hour, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.days, rentalDays(start, start.Add(c.hours)), "duration %s", c.hours)
	}
}
