package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"prestige-rentals/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateOrder inserts a new order; the generated id is written back into
// the model.
func (d *DB) CreateOrder(order *models.Order) error {
	_, err := d.Bun.NewInsert().Model(order).Exec(context.Background())
	return err
}

func (d *DB) GetOrderByID(id int64) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DB) GetOrderByReference(bookingReference string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("booking_reference = ?", bookingReference).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DB) GetAllOrders() ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (d *DB) GetOrdersByUser(userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrder persists every mutable column of the order.
func (d *DB) UpdateOrder(order *models.Order) error {
	_, err := d.Bun.NewUpdate().
		Model(order).
		WherePK().
		Exec(context.Background())
	return err
}

// HasOverlap reports whether any non-cancelled order for the vehicle
// intersects [start, end) under half-open interval semantics: two windows
// overlap iff s1 < e2 and s2 < e1.
func (d *DB) HasOverlap(vehicleID int64, start, end time.Time) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Order)(nil)).
		Where("vehicle_id = ?", vehicleID).
		Where("is_cancelled = ?", false).
		Where("start_time < ?", end).
		Where("end_time > ?", start).
		Exists(context.Background())
}

// GetActiveOrders returns non-cancelled orders whose window covers now.
func (d *DB) GetActiveOrders(now time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("start_time <= ?", now).
		Where("end_time > ?", now).
		Where("is_cancelled = ?", false).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetExpiredOrders returns non-cancelled orders whose window has fully
// passed.
func (d *DB) GetExpiredOrders(now time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("end_time <= ?", now).
		Where("is_cancelled = ?", false).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetBookedRanges lists the [start, end) windows of every non-cancelled
// order for a vehicle, soonest first.
func (d *DB) GetBookedRanges(vehicleID int64) ([]models.BookedRange, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("vehicle_id = ?", vehicleID).
		Where("is_cancelled = ?", false).
		Order("start_time ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}

	ranges := make([]models.BookedRange, len(orders))
	for i, order := range orders {
		ranges[i] = models.BookedRange{StartTime: order.StartTime, EndTime: order.EndTime}
	}
	return ranges, nil
}
