package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Order is a rental booking for a single vehicle over [StartTime, EndTime).
// Orders are never deleted, only cancelled. PricePerDay is snapshotted from
// the vehicle at booking time so later price changes don't rewrite history.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID                int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID            int64     `bun:"user_id,notnull" json:"userId"`
	VehicleID         int64     `bun:"vehicle_id,notnull" json:"vehicleId"`
	StartTime         time.Time `bun:"start_time,notnull" json:"startTime"`
	EndTime           time.Time `bun:"end_time,notnull" json:"endTime"`
	PricePerDay       float64   `bun:"price_per_day,notnull" json:"pricePerDay"`
	TotalCost         float64   `bun:"total_cost,notnull" json:"totalCost"`
	IsCancelled       bool      `bun:"is_cancelled,notnull,default:false" json:"isCancelled"`
	BookingReference  string    `bun:"booking_reference,notnull,unique" json:"bookingReference"`
	QRCodeData        string    `bun:"qr_code_data,notnull" json:"qrCodeData"`
	QRCodeBase64Image string    `bun:"qr_code_base64_image,notnull" json:"qrCodeBase64Image"`
	IsUsed            bool      `bun:"is_used,notnull,default:false" json:"isUsed"`
	ReviewReminderSet bool      `bun:"review_reminder_set,notnull,default:false" json:"reviewReminderSet"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

type CreateOrderRequest struct {
	UserID    int64     `json:"userId"`
	VehicleID int64     `json:"vehicleId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// BookedRange is a start/end pair of an existing non-cancelled booking,
// exposed so clients can grey out taken dates.
type BookedRange struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type PaymentRequest struct {
	OrderID   int64   `json:"orderId"`
	TotalCost float64 `json:"totalCost"`
	UserID    int64   `json:"userId"`
	VehicleID int64   `json:"vehicleId"`
}

type PaymentResult struct {
	Success          bool   `json:"success"`
	BookingReference string `json:"bookingReference"`
	QRCodeData       string `json:"qrCodeData"`
}

type QRValidationResult struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}
