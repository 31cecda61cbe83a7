package checkin

import (
	"errors"
	"fmt"

	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/models"
	"prestige-rentals/internal/order/qr"
)

type OrderStore interface {
	GetOrderByReference(bookingReference string) (*models.Order, error)
	UpdateOrder(order *models.Order) error
}

// Service validates a QR code presented at vehicle pickup: decode the
// image, extract the booking reference, match it to an order and flag the
// order used. A second scan of the same code re-validates; rejecting reuse
// is a pending product decision, not current behavior.
type Service struct {
	Orders OrderStore
	Logger *logger.Logger
}

func NewService(orders OrderStore, log *logger.Logger) *Service {
	return &Service{Orders: orders, Logger: log}
}

// ValidateQRCode checks a scanned image against the order book. The miss
// message is deliberately vague so callers can't probe which references
// exist.
func (s *Service) ValidateQRCode(imageBytes []byte) models.QRValidationResult {
	payload, err := qr.Decode(imageBytes)
	if err != nil {
		s.Logger.Warn("CHECKIN", fmt.Sprintf("qr decode failed: %v", err))
		return models.QRValidationResult{IsValid: false, Message: "Could not read a QR code from the image."}
	}

	reference, err := qr.ExtractReference(payload)
	if errors.Is(err, models.ErrInvalidQRFormat) {
		s.Logger.Warn("CHECKIN", "qr payload did not match booking format")
		return models.QRValidationResult{IsValid: false, Message: "Invalid QR code format."}
	}

	order, err := s.Orders.GetOrderByReference(reference)
	if errors.Is(err, models.ErrOrderNotFound) {
		return models.QRValidationResult{IsValid: false, Message: "Booking not found or not active."}
	}
	if err != nil {
		s.Logger.Error("CHECKIN", fmt.Sprintf("lookup for %s failed: %v", reference, err))
		return models.QRValidationResult{IsValid: false, Message: "Booking not found or not active."}
	}

	order.IsUsed = true
	if err := s.Orders.UpdateOrder(order); err != nil {
		s.Logger.Error("CHECKIN", fmt.Sprintf("failed to flag order %d used: %v", order.ID, err))
		return models.QRValidationResult{IsValid: false, Message: "Booking could not be validated."}
	}

	s.Logger.Info("CHECKIN", fmt.Sprintf("booking %s validated, order %d flagged used", reference, order.ID))
	return models.QRValidationResult{IsValid: true, Message: fmt.Sprintf("Booking %s validated.", reference)}
}
