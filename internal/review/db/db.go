package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"prestige-rentals/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateReview(review *models.Review) error {
	_, err := d.Bun.NewInsert().Model(review).Exec(context.Background())
	return err
}

func (d *DB) GetReviewByID(id int64) (*models.Review, error) {
	var review models.Review
	err := d.Bun.NewSelect().
		Model(&review).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (d *DB) GetReviewsByVehicle(vehicleID int64) ([]models.Review, error) {
	var reviews []models.Review
	err := d.Bun.NewSelect().
		Model(&reviews).
		Where("vehicle_id = ?", vehicleID).
		Order("id DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetReviewByOrder answers the "already reviewed this rental" check.
func (d *DB) GetReviewByOrder(orderID int64) (*models.Review, error) {
	var review models.Review
	err := d.Bun.NewSelect().
		Model(&review).
		Where("order_id = ?", orderID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (d *DB) DeleteReview(id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Review)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrReviewNotFound
	}
	return nil
}
