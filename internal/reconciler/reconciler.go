package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/models"
)

type OrderStore interface {
	GetActiveOrders(now time.Time) ([]models.Order, error)
	GetExpiredOrders(now time.Time) ([]models.Order, error)
	UpdateOrder(order *models.Order) error
}

type VehicleStore interface {
	GetVehicleByID(id int64) (*models.Vehicle, error)
	SetAvailability(id int64, available bool) error
}

type UserStore interface {
	GetUserByID(id int64) (*models.User, error)
}

type ReviewMailer interface {
	SendReviewRequest(toEmail, vehicleName string, orderID int64) error
}

type EventPublisher interface {
	Publish(topic string, key string, value []byte) error
}

// Reconciler is the availability sweep: a single periodic pass that flips
// vehicle availability to match the order timeline and fires the one-time
// review request once a rental ends. It runs on one loop only; passes never
// overlap.
type Reconciler struct {
	orders       OrderStore
	vehicles     VehicleStore
	users        UserStore
	mailer       ReviewMailer
	events       EventPublisher
	expiredTopic string
	interval     time.Duration
	logger       *logger.Logger
	now          func() time.Time
}

func New(orders OrderStore, vehicles VehicleStore, users UserStore, mailer ReviewMailer, interval time.Duration, log *logger.Logger) *Reconciler {
	return &Reconciler{
		orders:   orders,
		vehicles: vehicles,
		users:    users,
		mailer:   mailer,
		interval: interval,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithEvents makes the reconciler announce each expired order on the given
// topic, once, alongside the review request.
func (r *Reconciler) WithEvents(events EventPublisher, expiredTopic string) *Reconciler {
	r.events = events
	r.expiredTopic = expiredTopic
	return r
}

// Start blocks until ctx is cancelled, sweeping once per interval.
// Cancellation takes effect between ticks, not mid-sweep.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.LogWorker("START", fmt.Sprintf("availability sweep every %s", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.LogWorker("STOP", "availability sweep stopped")
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep runs one reconciliation pass. Failures are logged and swallowed;
// the next tick retries the whole batch.
func (r *Reconciler) Sweep() {
	now := r.now()
	r.activatePhase(now)
	r.expirePhase(now)
}

// activatePhase closes availability for vehicles whose rental window has
// begun. The flag write is idempotent, so revisiting a vehicle across
// multiple orders is harmless.
func (r *Reconciler) activatePhase(now time.Time) {
	active, err := r.orders.GetActiveOrders(now)
	if err != nil {
		r.logger.Error("WORKER", fmt.Sprintf("active order scan failed: %v", err))
		return
	}

	for _, order := range active {
		vehicle, err := r.vehicles.GetVehicleByID(order.VehicleID)
		if err != nil {
			r.logger.Error("WORKER", fmt.Sprintf("vehicle %d lookup failed: %v", order.VehicleID, err))
			continue
		}
		if !vehicle.Available {
			continue
		}
		if err := r.vehicles.SetAvailability(vehicle.ID, false); err != nil {
			r.logger.Error("WORKER", fmt.Sprintf("failed to close vehicle %d: %v", vehicle.ID, err))
			continue
		}
		r.logger.LogWorker("ACTIVATE", fmt.Sprintf("vehicle %d marked unavailable for order %d", vehicle.ID, order.ID))
	}
}

// expirePhase reopens vehicles whose rental window has passed and sends
// the review request exactly once per order. The ReviewReminderSet flag is
// persisted in the same order save, so a crash before commit means the mail
// is retried next tick rather than lost, and a commit means it never
// repeats.
func (r *Reconciler) expirePhase(now time.Time) {
	expired, err := r.orders.GetExpiredOrders(now)
	if err != nil {
		r.logger.Error("WORKER", fmt.Sprintf("expired order scan failed: %v", err))
		return
	}

	for _, order := range expired {
		vehicle, err := r.vehicles.GetVehicleByID(order.VehicleID)
		if err != nil {
			r.logger.Error("WORKER", fmt.Sprintf("vehicle %d lookup failed: %v", order.VehicleID, err))
			continue
		}

		if !vehicle.Available {
			if err := r.vehicles.SetAvailability(vehicle.ID, true); err != nil {
				r.logger.Error("WORKER", fmt.Sprintf("failed to reopen vehicle %d: %v", vehicle.ID, err))
				continue
			}
			r.logger.LogWorker("EXPIRE", fmt.Sprintf("vehicle %d marked available after order %d", vehicle.ID, order.ID))
		}

		if order.ReviewReminderSet {
			continue
		}

		user, err := r.users.GetUserByID(order.UserID)
		if err != nil {
			r.logger.Error("WORKER", fmt.Sprintf("user %d lookup failed: %v", order.UserID, err))
			continue
		}

		vehicleName := fmt.Sprintf("%s %s", vehicle.Make, vehicle.Model)
		if err := r.mailer.SendReviewRequest(user.Email, vehicleName, order.ID); err != nil {
			r.logger.Error("WORKER", fmt.Sprintf("review request for order %d failed: %v", order.ID, err))
			continue
		}

		o := order
		o.ReviewReminderSet = true
		if err := r.orders.UpdateOrder(&o); err != nil {
			r.logger.Error("WORKER", fmt.Sprintf("failed to persist reminder flag for order %d: %v", order.ID, err))
			continue
		}
		r.publishExpired(&o)
		r.logger.LogWorker("EXPIRE", fmt.Sprintf("review request sent for order %d", order.ID))
	}
}

// publishExpired is best-effort like the rest of the sweep; a lost event is
// not retried because the reminder flag has already been committed.
func (r *Reconciler) publishExpired(order *models.Order) {
	if r.events == nil || r.expiredTopic == "" {
		return
	}
	value, err := json.Marshal(order)
	if err != nil {
		r.logger.Error("KAFKA", fmt.Sprintf("failed to marshal expired order %d: %v", order.ID, err))
		return
	}
	if err := r.events.Publish(r.expiredTopic, strconv.FormatInt(order.ID, 10), value); err != nil {
		r.logger.Error("KAFKA", fmt.Sprintf("failed to publish expired order %d: %v", order.ID, err))
	}
}
