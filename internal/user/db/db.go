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

func (d *DB) CreateUser(user *models.User) error {
	_, err := d.Bun.NewInsert().Model(user).Exec(context.Background())
	return err
}

func (d *DB) GetUserByID(id int64) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("email = ?", email).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) GetActiveUsers() ([]models.User, error) {
	var users []models.User
	err := d.Bun.NewSelect().
		Model(&users).
		Where("active = ?", true).
		Where("deleted = ?", false).
		Order("id ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (d *DB) UpdateUser(user *models.User) error {
	_, err := d.Bun.NewUpdate().
		Model(user).
		WherePK().
		Exec(context.Background())
	return err
}

// SoftDeleteUser marks the user and their details row deleted, keeping both
// rows for order history.
func (d *DB) SoftDeleteUser(id int64) error {
	ctx := context.Background()

	res, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("active = ?", false).
		Set("deleted = ?", true).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrUserNotFound
	}

	_, err = d.Bun.NewUpdate().
		Model((*models.UserDetails)(nil)).
		Set("active = ?", false).
		Set("deleted = ?", true).
		Where("user_id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) CreateUserDetails(details *models.UserDetails) error {
	_, err := d.Bun.NewInsert().Model(details).Exec(context.Background())
	return err
}

func (d *DB) UpdateUserDetails(details *models.UserDetails) error {
	_, err := d.Bun.NewUpdate().
		Model(details).
		WherePK().
		Exec(context.Background())
	return err
}

func (d *DB) GetUserDetails(userID int64) (*models.UserDetails, error) {
	var details models.UserDetails
	err := d.Bun.NewSelect().
		Model(&details).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &details, nil
}
