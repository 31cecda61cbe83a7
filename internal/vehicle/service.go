package vehicle

import (
	"fmt"
	"time"

	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/models"
)

type DBLayer interface {
	CreateVehicle(vehicle *models.Vehicle) error
	GetVehicleByID(id int64) (*models.Vehicle, error)
	GetActiveVehicles() ([]models.Vehicle, error)
	GetFilterOptions() (*models.VehicleFilterOptions, error)
	UpdateVehicle(vehicle *models.Vehicle) error
	SoftDeleteVehicle(id int64) error
	CreateOptions(options *models.VehicleOptions) error
	GetOptionsByVehicle(vehicleID int64) (*models.VehicleOptions, error)
	UpdateOptions(options *models.VehicleOptions) error
}

type BookingRanges interface {
	GetBookedRanges(vehicleID int64) ([]models.BookedRange, error)
}

// VehicleService manages the fleet catalog. Rows are soft-deleted so past
// orders keep pointing at real vehicles.
type VehicleService struct {
	DB       DBLayer
	Bookings BookingRanges
	Logger   *logger.Logger
}

func NewVehicleService(db DBLayer, bookings BookingRanges, log *logger.Logger) *VehicleService {
	return &VehicleService{DB: db, Bookings: bookings, Logger: log}
}

func (s *VehicleService) CreateVehicle(vehicle *models.Vehicle) error {
	vehicle.Active = true
	vehicle.Deleted = false
	if err := s.DB.CreateVehicle(vehicle); err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	s.Logger.Info("VEHICLE", fmt.Sprintf("created vehicle %d (%s %s)", vehicle.ID, vehicle.Make, vehicle.Model))
	return nil
}

func (s *VehicleService) GetVehicle(id int64) (*models.Vehicle, error) {
	return s.DB.GetVehicleByID(id)
}

func (s *VehicleService) GetAllVehicles() ([]models.Vehicle, error) {
	return s.DB.GetActiveVehicles()
}

// GetFilterOptions returns the distinct attribute values of the active fleet
// for the search filter dropdowns.
func (s *VehicleService) GetFilterOptions() (*models.VehicleFilterOptions, error) {
	filters, err := s.DB.GetFilterOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle filter options: %w", err)
	}
	return filters, nil
}

func (s *VehicleService) UpdateVehicle(vehicle *models.Vehicle) error {
	if _, err := s.DB.GetVehicleByID(vehicle.ID); err != nil {
		return err
	}
	if err := s.DB.UpdateVehicle(vehicle); err != nil {
		return fmt.Errorf("failed to update vehicle %d: %w", vehicle.ID, err)
	}
	return nil
}

func (s *VehicleService) DeleteVehicle(id int64) error {
	if err := s.DB.SoftDeleteVehicle(id); err != nil {
		return err
	}
	s.Logger.Info("VEHICLE", fmt.Sprintf("soft-deleted vehicle %d", id))
	return nil
}

func (s *VehicleService) SetOptions(options *models.VehicleOptions) error {
	if _, err := s.DB.GetVehicleByID(options.VehicleID); err != nil {
		return err
	}

	existing, err := s.DB.GetOptionsByVehicle(options.VehicleID)
	if err == nil && existing != nil {
		options.ID = existing.ID
		options.Active = true
		options.Deleted = false
		return s.DB.UpdateOptions(options)
	}

	options.Active = true
	options.Deleted = false
	return s.DB.CreateOptions(options)
}

func (s *VehicleService) GetOptions(vehicleID int64) (*models.VehicleOptions, error) {
	return s.DB.GetOptionsByVehicle(vehicleID)
}

// GetBookedRanges lists the occupied windows for a vehicle so the booking
// calendar can grey them out. Windows are half-open; a rental ending at
// 10:00 does not block one starting at 10:00. With upcomingOnly set,
// windows that have fully elapsed are dropped.
func (s *VehicleService) GetBookedRanges(vehicleID int64, upcomingOnly bool) ([]models.BookedRange, error) {
	if _, err := s.DB.GetVehicleByID(vehicleID); err != nil {
		return nil, err
	}

	ranges, err := s.Bookings.GetBookedRanges(vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked ranges for vehicle %d: %w", vehicleID, err)
	}

	now := time.Now().UTC()
	out := make([]models.BookedRange, 0, len(ranges))
	for _, r := range ranges {
		if upcomingOnly && !r.EndTime.After(now) {
			continue
		}
		r.StartTime = r.StartTime.UTC()
		r.EndTime = r.EndTime.UTC()
		out = append(out, r)
	}
	return out, nil
}
