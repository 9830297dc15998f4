package safety

import (
	"context"
	"fmt"
)

// ActionBookService is the only action the guard currently knows.
const ActionBookService = "book_service"

// Guard validates agent actions against the current vehicle snapshot.
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// Validate permits book_service only while the vehicle is stationary.
// Snapshots without a speed field pass; the replay dashboard only supplies
// temperature.
func (g *Guard) Validate(ctx context.Context, action string, snapshot map[string]any) (bool, string) {
	if action != ActionBookService {
		return false, fmt.Sprintf("unknown action %q", action)
	}
	if speed, ok := numeric(snapshot["speed"]); ok && speed > 0 {
		return false, "vehicle is still in motion, stop safely before a service visit can be scheduled"
	}
	return true, "vehicle stationary, booking permitted"
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
