package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"autosync/serving/internal/domain"
)

// RedisCalendar keeps slot claims and booking history in Redis so multiple
// serving instances share one calendar. Claims use SetNX, so two sessions
// racing for the same slot resolve to exactly one winner; the loser gets
// false, not a double-booking.
type RedisCalendar struct {
	client *redis.Client
	slots  []domain.Slot
}

func NewRedisCalendar(client *redis.Client) *RedisCalendar {
	return &RedisCalendar{client: client, slots: DemoSlots}
}

func claimKey(slotID string) string {
	return fmt.Sprintf("booking:claim:%s", slotID)
}

func historyKey(vehicleReg string) string {
	return fmt.Sprintf("booking:history:%s", vehicleReg)
}

func (c *RedisCalendar) FindAvailableSlot(ctx context.Context) (*domain.Slot, error) {
	for _, slot := range c.slots {
		n, err := c.client.Exists(ctx, claimKey(slot.SlotID)).Result()
		if err != nil {
			return nil, fmt.Errorf("slot claim check failed: %w", err)
		}
		if n == 0 {
			s := slot
			return &s, nil
		}
	}
	return nil, nil
}

func (c *RedisCalendar) BookSlot(ctx context.Context, slotID, vehicleReg string) (bool, error) {
	var slot *domain.Slot
	for i := range c.slots {
		if c.slots[i].SlotID == slotID {
			slot = &c.slots[i]
			break
		}
	}
	if slot == nil {
		return false, nil
	}

	claimed, err := c.client.SetNX(ctx, claimKey(slotID), vehicleReg, 0).Result()
	if err != nil {
		return false, fmt.Errorf("slot claim failed: %w", err)
	}
	if !claimed {
		return false, nil
	}

	record := domain.BookingRecord{
		SlotID:     slot.SlotID,
		Date:       slot.Date,
		Time:       slot.Time,
		Status:     domain.BookingBooked,
		VehicleReg: vehicleReg,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return true, fmt.Errorf("marshal booking record: %w", err)
	}
	if err := c.client.RPush(ctx, historyKey(vehicleReg), payload).Err(); err != nil {
		// The claim stands even if the history append fails.
		return true, fmt.Errorf("append booking history: %w", err)
	}
	return true, nil
}

func (c *RedisCalendar) History(ctx context.Context, vehicleReg string) ([]domain.BookingRecord, error) {
	raw, err := c.client.LRange(ctx, historyKey(vehicleReg), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read booking history: %w", err)
	}
	records := make([]domain.BookingRecord, 0, len(raw))
	for _, item := range raw {
		var rec domain.BookingRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode booking record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
