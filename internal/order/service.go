package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/models"
	"prestige-rentals/internal/order/qr"
)

type DBLayer interface {
	CreateOrder(order *models.Order) error
	GetOrderByID(id int64) (*models.Order, error)
	GetOrderByReference(bookingReference string) (*models.Order, error)
	GetAllOrders() ([]models.Order, error)
	GetOrdersByUser(userID int64) ([]models.Order, error)
	UpdateOrder(order *models.Order) error
	HasOverlap(vehicleID int64, start, end time.Time) (bool, error)
}

type VehicleStore interface {
	GetVehicleByID(id int64) (*models.Vehicle, error)
	SetAvailability(id int64, available bool) error
}

type UserStore interface {
	GetUserByID(id int64) (*models.User, error)
}

type VehicleLock interface {
	LockVehicle(vehicleID int64, token string) (bool, error)
	UnlockVehicle(vehicleID int64, token string) error
}

type Mailer interface {
	SendBookingConfirmation(toEmail, bookingReference, qrImageSrc string) error
}

type EventPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type Topics struct {
	OrderCreated   string
	OrderCancelled string
}

// OrderService is the booking engine: it validates rental windows, prices
// them, generates the booking reference and QR artifacts, and guards a
// vehicle against double-booking.
type OrderService struct {
	DB       DBLayer
	Vehicles VehicleStore
	Users    UserStore
	Lock     VehicleLock
	Mailer   Mailer
	Events   EventPublisher
	Topics   Topics
	Logger   *logger.Logger
}

func NewOrderService(db DBLayer, vehicles VehicleStore, users UserStore, lock VehicleLock, mailer Mailer, events EventPublisher, topics Topics, log *logger.Logger) *OrderService {
	return &OrderService{
		DB:       db,
		Vehicles: vehicles,
		Users:    users,
		Lock:     lock,
		Mailer:   mailer,
		Events:   events,
		Topics:   topics,
		Logger:   log,
	}
}

// rentalDays charges partial days as full days: a 25 hour rental costs two
// days.
func rentalDays(start, end time.Time) int64 {
	return int64(math.Ceil(end.Sub(start).Hours() / 24))
}

func generateBookingReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "PR-" + strings.ToUpper(raw[:8])
}

// CreateOrder books a vehicle for [start, end). The advisory availability
// flag is only a pre-check; conflict truth is the overlap scan against the
// order table, done under a per-vehicle lock so two concurrent requests
// cannot both pass it.
func (s *OrderService) CreateOrder(req models.CreateOrderRequest) (*models.Order, error) {
	vehicle, err := s.Vehicles.GetVehicleByID(req.VehicleID)
	if err != nil {
		return nil, err
	}

	if !vehicle.Available {
		return nil, models.ErrVehicleUnavailable
	}

	start := req.StartTime.UTC()
	end := req.EndTime.UTC()
	if !end.After(start) {
		return nil, models.ErrInvalidTimeRange
	}

	user, err := s.Users.GetUserByID(req.UserID)
	if err != nil {
		return nil, err
	}
	if user.Email == "" {
		return nil, models.ErrUserEmailMissing
	}

	lockToken := uuid.NewString()
	locked, err := s.Lock.LockVehicle(req.VehicleID, lockToken)
	if err != nil {
		return nil, fmt.Errorf("failed to lock vehicle %d: %w", req.VehicleID, err)
	}
	if !locked {
		return nil, models.ErrBookingConflict
	}
	defer func() {
		if err := s.Lock.UnlockVehicle(req.VehicleID, lockToken); err != nil {
			s.Logger.Warn("ORDER", fmt.Sprintf("failed to unlock vehicle %d: %v", req.VehicleID, err))
		}
	}()

	overlaps, err := s.DB.HasOverlap(req.VehicleID, start, end)
	if err != nil {
		return nil, fmt.Errorf("overlap check failed: %w", err)
	}
	if overlaps {
		return nil, models.ErrBookingConflict
	}

	totalCost := float64(rentalDays(start, end)) * vehicle.PricePerDay
	bookingReference := generateBookingReference()

	qrData := qr.BuildPayload(bookingReference, req.VehicleID, start, end)
	qrImage, err := qr.DataURI(qrData)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}

	order := &models.Order{
		UserID:            req.UserID,
		VehicleID:         req.VehicleID,
		StartTime:         start,
		EndTime:           end,
		PricePerDay:       vehicle.PricePerDay,
		TotalCost:         totalCost,
		BookingReference:  bookingReference,
		QRCodeData:        qrData,
		QRCodeBase64Image: qrImage,
		IsUsed:            false,
		ReviewReminderSet: false,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.DB.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.Logger.LogOrder("CREATE", order.ID, fmt.Sprintf("booked vehicle %d for %s, ref %s", req.VehicleID, end.Sub(start), bookingReference))

	// The booking is committed; a failed mail or event must not unwind it.
	if err := s.Mailer.SendBookingConfirmation(user.Email, bookingReference, qrImage); err != nil {
		s.Logger.Error("EMAIL", fmt.Sprintf("confirmation for order %d failed: %v", order.ID, err))
	}
	s.publish(s.Topics.OrderCreated, order)

	return order, nil
}

// CancelOrder flags the order cancelled and immediately reopens the
// vehicle's availability. This is the one place availability is written
// synchronously; everything else is left to the reconciliation sweep.
func (s *OrderService) CancelOrder(id int64) (bool, error) {
	order, err := s.DB.GetOrderByID(id)
	if errors.Is(err, models.ErrOrderNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	order.IsCancelled = true
	if err := s.DB.UpdateOrder(order); err != nil {
		return false, fmt.Errorf("failed to cancel order %d: %w", id, err)
	}

	if err := s.Vehicles.SetAvailability(order.VehicleID, true); err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("failed to reopen vehicle %d after cancel: %v", order.VehicleID, err))
	}

	s.Logger.LogOrder("CANCEL", order.ID, "order cancelled, vehicle reopened")
	s.publish(s.Topics.OrderCancelled, order)

	return true, nil
}

func (s *OrderService) GetOrder(id int64) (*models.Order, error) {
	return s.DB.GetOrderByID(id)
}

func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.DB.GetAllOrders()
}

func (s *OrderService) GetOrdersByUser(userID int64) ([]models.Order, error) {
	return s.DB.GetOrdersByUser(userID)
}

// MockPayment pretends to charge the order and hands back the booking
// artifacts the confirmation page renders. No money moves here.
func (s *OrderService) MockPayment(req models.PaymentRequest) (*models.PaymentResult, error) {
	order, err := s.DB.GetOrderByID(req.OrderID)
	if err != nil {
		return nil, err
	}

	return &models.PaymentResult{
		Success:          true,
		BookingReference: order.BookingReference,
		QRCodeData:       order.QRCodeData,
	}, nil
}

func (s *OrderService) publish(topic string, order *models.Order) {
	if s.Events == nil || topic == "" {
		return
	}
	value, err := json.Marshal(order)
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to marshal order %d: %v", order.ID, err))
		return
	}
	if err := s.Events.Publish(topic, strconv.FormatInt(order.ID, 10), value); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish to %s: %v", topic, err))
	}
}
