package booking

import (
	"context"
	"sync"

	"autosync/serving/internal/domain"
)

// DemoSlots is the fixed demo calendar. Slot order is booking priority.
var DemoSlots = []domain.Slot{
	{SlotID: "S1", Date: "2024-03-15", Time: "09:00"},
	{SlotID: "S2", Date: "2024-03-15", Time: "11:30"},
	{SlotID: "S3", Date: "2024-03-16", Time: "10:00"},
	{SlotID: "S4", Date: "2024-03-16", Time: "14:00"},
	{SlotID: "S5", Date: "2024-03-18", Time: "09:30"},
}

// MemoryCalendar is the in-process slot calendar used in demo mode. All
// operations are serialized behind one mutex, so concurrent sessions can
// never claim the same slot twice.
type MemoryCalendar struct {
	mu      sync.Mutex
	slots   []domain.Slot
	claimed map[string]string // slot ID -> vehicle registration
	history map[string][]domain.BookingRecord
}

func NewMemoryCalendar() *MemoryCalendar {
	c := &MemoryCalendar{
		slots:   DemoSlots,
		claimed: make(map[string]string),
		history: make(map[string][]domain.BookingRecord),
	}
	// One completed visit so the service portal has something to show.
	c.history["TN-22-BJ-2730"] = []domain.BookingRecord{
		{SlotID: "S0", Date: "2024-01-12", Time: "10:00", Status: domain.BookingCompleted, VehicleReg: "TN-22-BJ-2730"},
	}
	return c
}

func (c *MemoryCalendar) FindAvailableSlot(ctx context.Context) (*domain.Slot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, slot := range c.slots {
		if _, taken := c.claimed[slot.SlotID]; !taken {
			s := slot
			return &s, nil
		}
	}
	return nil, nil
}

func (c *MemoryCalendar) BookSlot(ctx context.Context, slotID, vehicleReg string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

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
	if _, taken := c.claimed[slotID]; taken {
		return false, nil
	}

	c.claimed[slotID] = vehicleReg
	c.history[vehicleReg] = append(c.history[vehicleReg], domain.BookingRecord{
		SlotID:     slot.SlotID,
		Date:       slot.Date,
		Time:       slot.Time,
		Status:     domain.BookingBooked,
		VehicleReg: vehicleReg,
	})
	return true, nil
}

func (c *MemoryCalendar) History(ctx context.Context, vehicleReg string) ([]domain.BookingRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	records := c.history[vehicleReg]
	out := make([]domain.BookingRecord, len(records))
	copy(out, records)
	return out, nil
}
