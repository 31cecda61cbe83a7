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

func (d *DB) CreateTicket(ticket *models.Ticket) error {
	_, err := d.Bun.NewInsert().Model(ticket).Exec(context.Background())
	return err
}

func (d *DB) GetTicketByID(id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (d *DB) GetAllTickets() ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Order("id DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (d *DB) DeleteTicket(id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Ticket)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrTicketNotFound
	}
	return nil
}
