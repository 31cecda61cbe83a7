package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis serializes the check-then-insert sequence of order creation per
// vehicle. Two concurrent bookings for the same vehicle take turns; the
// TTL guards against a crashed holder wedging the vehicle.
type Redis struct {
	Client  *redis.Client
	LockTTL time.Duration
}

func NewRedis(client *redis.Client, lockTTL time.Duration) *Redis {
	return &Redis{Client: client, LockTTL: lockTTL}
}

func vehicleLockKey(vehicleID int64) string {
	return fmt.Sprintf("vehicle_booking_lock:%d", vehicleID)
}

// LockVehicle takes the booking lock for a vehicle. Returns false when
// another booking currently holds it.
func (r *Redis) LockVehicle(vehicleID int64, token string) (bool, error) {
	return r.Client.SetNX(context.Background(), vehicleLockKey(vehicleID), token, r.LockTTL).Result()
}

// UnlockVehicle releases the booking lock, but only if this caller still
// owns it.
func (r *Redis) UnlockVehicle(vehicleID int64, token string) error {
	ctx := context.Background()
	key := vehicleLockKey(vehicleID)

	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // lock already expired
	}
	if err != nil {
		return err
	}
	if val == token {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
