package models

import (
	"github.com/uptrace/bun"
)

// Vehicle is a rentable vehicle. Active/Deleted form the soft-delete pair;
// Available is an advisory flag maintained by the availability worker and
// must never be used as the source of truth for booking conflicts.
type Vehicle struct {
	bun.BaseModel `bun:"table:vehicles"`

	ID           int64   `bun:"id,pk,autoincrement" json:"id"`
	Make         string  `bun:"make,notnull" json:"make"`
	Model        string  `bun:"model,notnull" json:"model"`
	Chassis      string  `bun:"chassis" json:"chassis"`
	EngineSize   float64 `bun:"engine_size" json:"engineSize"`
	FuelType     string  `bun:"fuel_type" json:"fuelType"`
	Transmission string  `bun:"transmission" json:"transmission"`
	PricePerDay  float64 `bun:"price_per_day,notnull" json:"pricePerDay"`
	Available    bool    `bun:"available,notnull,default:true" json:"available"`
	Active       bool    `bun:"active,notnull,default:true" json:"active"`
	Deleted      bool    `bun:"deleted,notnull,default:false" json:"deleted"`
}

// VehicleFilterOptions lists the distinct values present in the active fleet,
// used to populate the search filter dropdowns.
type VehicleFilterOptions struct {
	Makes         []string `json:"makes"`
	Models        []string `json:"models"`
	FuelTypes     []string `json:"fuelTypes"`
	Transmissions []string `json:"transmissions"`
	Chassis       []string `json:"chassis"`
}

// VehicleOptions holds the boolean feature flags for a vehicle, one row per
// vehicle. Its soft-delete state mirrors the vehicle's.
type VehicleOptions struct {
	bun.BaseModel `bun:"table:vehicle_options"`

	ID             int64 `bun:"id,pk,autoincrement" json:"id"`
	VehicleID      int64 `bun:"vehicle_id,notnull,unique" json:"vehicleId"`
	Navigation     bool  `bun:"navigation,notnull,default:false" json:"navigation"`
	HeadsUpDisplay bool  `bun:"heads_up_display,notnull,default:false" json:"headsUpDisplay"`
	HillAssist     bool  `bun:"hill_assist,notnull,default:false" json:"hillAssist"`
	CruiseControl  bool  `bun:"cruise_control,notnull,default:false" json:"cruiseControl"`
	Active         bool  `bun:"active,notnull,default:true" json:"active"`
	Deleted        bool  `bun:"deleted,notnull,default:false" json:"deleted"`
}
