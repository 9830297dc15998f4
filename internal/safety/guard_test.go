package safety

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStationaryVehicle(t *testing.T) {
	g := NewGuard()
	allowed, reason := g.Validate(context.Background(), ActionBookService, map[string]any{"temp": 115})
	assert.True(t, allowed)
	assert.NotEmpty(t, reason)
}

func TestValidateMovingVehicleBlocked(t *testing.T) {
	g := NewGuard()
	allowed, reason := g.Validate(context.Background(), ActionBookService, map[string]any{"temp": 120, "speed": 62.5})
	assert.False(t, allowed)
	assert.Contains(t, reason, "motion")
}

func TestValidateIntSpeed(t *testing.T) {
	g := NewGuard()
	allowed, _ := g.Validate(context.Background(), ActionBookService, map[string]any{"speed": 30})
	assert.False(t, allowed)
}

func TestValidateZeroSpeedAllowed(t *testing.T) {
	g := NewGuard()
	allowed, _ := g.Validate(context.Background(), ActionBookService, map[string]any{"speed": 0.0})
	assert.True(t, allowed)
}

func TestValidateUnknownAction(t *testing.T) {
	g := NewGuard()
	allowed, reason := g.Validate(context.Background(), "launch_rocket", map[string]any{})
	assert.False(t, allowed)
	assert.Contains(t, reason, "launch_rocket")
}
