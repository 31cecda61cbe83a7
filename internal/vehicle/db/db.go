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

func (d *DB) CreateVehicle(vehicle *models.Vehicle) error {
	_, err := d.Bun.NewInsert().Model(vehicle).Exec(context.Background())
	return err
}

func (d *DB) GetVehicleByID(id int64) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := d.Bun.NewSelect().
		Model(&vehicle).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// GetActiveVehicles lists vehicles that have not been soft-deleted.
func (d *DB) GetActiveVehicles() ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := d.Bun.NewSelect().
		Model(&vehicles).
		Where("active = ?", true).
		Where("deleted = ?", false).
		Order("id ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (d *DB) UpdateVehicle(vehicle *models.Vehicle) error {
	_, err := d.Bun.NewUpdate().
		Model(vehicle).
		WherePK().
		Exec(context.Background())
	return err
}

// SetAvailability flips only the advisory availability flag.
func (d *DB) SetAvailability(id int64, available bool) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Vehicle)(nil)).
		Set("available = ?", available).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// SoftDeleteVehicle marks the vehicle and its options row deleted. Rows are
// kept so historical orders stay resolvable.
func (d *DB) SoftDeleteVehicle(id int64) error {
	ctx := context.Background()

	res, err := d.Bun.NewUpdate().
		Model((*models.Vehicle)(nil)).
		Set("active = ?", false).
		Set("deleted = ?", true).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrVehicleNotFound
	}

	_, err = d.Bun.NewUpdate().
		Model((*models.VehicleOptions)(nil)).
		Set("active = ?", false).
		Set("deleted = ?", true).
		Where("vehicle_id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) distinctColumn(column string) ([]string, error) {
	var values []string
	err := d.Bun.NewSelect().
		Model((*models.Vehicle)(nil)).
		ColumnExpr("DISTINCT ?", bun.Ident(column)).
		Where("active = ?", true).
		Where("deleted = ?", false).
		Where("? != ''", bun.Ident(column)).
		OrderExpr("? ASC", bun.Ident(column)).
		Scan(context.Background(), &values)
	if err != nil {
		return nil, err
	}
	return values, nil
}

// GetFilterOptions collects the distinct makes, models, fuel types,
// transmissions and chassis of the active fleet.
func (d *DB) GetFilterOptions() (*models.VehicleFilterOptions, error) {
	filters := &models.VehicleFilterOptions{}

	for _, c := range []struct {
		column string
		dest   *[]string
	}{
		{"make", &filters.Makes},
		{"model", &filters.Models},
		{"fuel_type", &filters.FuelTypes},
		{"transmission", &filters.Transmissions},
		{"chassis", &filters.Chassis},
	} {
		values, err := d.distinctColumn(c.column)
		if err != nil {
			return nil, err
		}
		*c.dest = values
	}
	return filters, nil
}

func (d *DB) CreateOptions(options *models.VehicleOptions) error {
	_, err := d.Bun.NewInsert().Model(options).Exec(context.Background())
	return err
}

func (d *DB) GetOptionsByVehicle(vehicleID int64) (*models.VehicleOptions, error) {
	var options models.VehicleOptions
	err := d.Bun.NewSelect().
		Model(&options).
		Where("vehicle_id = ?", vehicleID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &options, nil
}

func (d *DB) UpdateOptions(options *models.VehicleOptions) error {
	_, err := d.Bun.NewUpdate().
		Model(options).
		WherePK().
		Exec(context.Background())
	return err
}
