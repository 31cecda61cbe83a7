package models

import (
	"github.com/uptrace/bun"
)

// Review is tied to the order it reviews; the OrderID link is what gates
// "already reviewed" checks on the client.
type Review struct {
	bun.BaseModel `bun:"table:reviews"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64  `bun:"user_id,notnull" json:"userId"`
	VehicleID   int64  `bun:"vehicle_id,notnull" json:"vehicleId"`
	OrderID     int64  `bun:"order_id,notnull" json:"orderId"`
	Rating      int    `bun:"rating,notnull" json:"rating"`
	Description string `bun:"description" json:"description"`
}
