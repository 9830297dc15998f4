package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autosync/serving/internal/domain"
	"autosync/serving/internal/retrieval"
	"autosync/serving/internal/safety"

	"go.uber.org/zap"
)

func newTestAgent(booker *fakeBooker, alerter *fakeAlerter, validator *fakeValidator) *Agent {
	return NewAgent(retrieval.NewManualStub(), validator, booker, alerter, zap.NewNop())
}

func TestAnalyzeOverheatingBooksSlot(t *testing.T) {
	booker := &fakeBooker{slot: &domain.Slot{SlotID: "S2", Date: "2024-03-15", Time: "11:30"}, bookOK: true}
	alerter := &fakeAlerter{delivered: true}
	validator := &fakeValidator{allowed: true, reason: "vehicle stationary, booking permitted"}
	agent := newTestAgent(booker, alerter, validator)

	result := agent.Analyze(context.Background(), "overheating detected", nil)

	assert.Equal(t, "CRITICAL: Engine Overtemp (P0217) detected. Immediate action required.", result.Analysis)
	require.Len(t, result.Steps, 3)
	assert.Equal(t, "1. STOP the vehicle immediately.", result.Steps[0])
	assert.Equal(t, "2. Do not open the radiator cap.", result.Steps[1])
	assert.Equal(t, "3. Allow engine to cool for 15 minutes.", result.Steps[2])
	assert.Equal(t, "Slot found at 11:30. Auto-booking initiated.", result.BookingStatus)

	// Default snapshot substitutes for the missing vehicle data.
	require.Len(t, validator.snapshots, 1)
	assert.Equal(t, safety.ActionBookService, validator.action)
	assert.Equal(t, 115, validator.snapshots[0]["temp"])

	require.Equal(t, 1, alerter.calls)
	assert.Contains(t, alerter.messages[0], "11:30")
}

func TestAnalyzeFaultCodeTokenTriggersSameBranch(t *testing.T) {
	booker := &fakeBooker{slot: &domain.Slot{SlotID: "S1", Date: "2024-03-15", Time: "09:00"}, bookOK: true}
	alerter := &fakeAlerter{delivered: true}
	validator := &fakeValidator{allowed: true}
	agent := newTestAgent(booker, alerter, validator)

	result := agent.Analyze(context.Background(), "what does P0217 mean?", nil)

	assert.True(t, strings.HasPrefix(result.Analysis, "CRITICAL:"))
	assert.Len(t, result.Steps, 3)
}

func TestAnalyzeOverheatingNoSlots(t *testing.T) {
	booker := &fakeBooker{slot: nil}
	alerter := &fakeAlerter{delivered: true}
	validator := &fakeValidator{allowed: true}
	agent := newTestAgent(booker, alerter, validator)

	result := agent.Analyze(context.Background(), "engine overheating", nil)

	assert.Equal(t, "No service slots available immediately.", result.BookingStatus)
	assert.Equal(t, 0, alerter.calls, "no alert without a slot")
}

func TestAnalyzeSafetyBlocked(t *testing.T) {
	booker := &fakeBooker{slot: &domain.Slot{SlotID: "S1", Date: "2024-03-15", Time: "09:00"}, bookOK: true}
	alerter := &fakeAlerter{delivered: true}
	validator := &fakeValidator{allowed: false, reason: "vehicle is still in motion"}
	agent := newTestAgent(booker, alerter, validator)

	result := agent.Analyze(context.Background(), "overheating", map[string]any{"temp": 120, "speed": 80})

	assert.Equal(t, "Booking blocked by Safety Layer: vehicle is still in motion", result.BookingStatus)
	assert.Equal(t, 0, booker.findCalls, "no slot lookup when blocked")
	assert.Equal(t, 0, alerter.calls)
}

func TestAnalyzeNormalQuery(t *testing.T) {
	booker := &fakeBooker{slot: &domain.Slot{SlotID: "S1", Date: "2024-03-15", Time: "09:00"}, bookOK: true}
	alerter := &fakeAlerter{delivered: true}
	validator := &fakeValidator{allowed: true}
	agent := newTestAgent(booker, alerter, validator)

	result := agent.Analyze(context.Background(), "check tire pressure", nil)

	assert.True(t, strings.HasPrefix(result.Analysis, "System Normal."), "got %q", result.Analysis)
	assert.True(t, strings.HasSuffix(result.Analysis, "..."))
	assert.Equal(t, "Not required", result.BookingStatus)
	assert.Empty(t, result.Steps)

	// The only side effect on this branch is the retrieval call.
	assert.Equal(t, 0, booker.findCalls)
	assert.Equal(t, 0, booker.bookCalls)
	assert.Equal(t, 0, alerter.calls)
	assert.Len(t, validator.snapshots, 0)
}

func TestAnalyzeRetrievalFailureDegrades(t *testing.T) {
	booker := &fakeBooker{}
	alerter := &fakeAlerter{delivered: true}
	validator := &fakeValidator{allowed: true}
	retriever := &fakeRetriever{err: errTransportClosed}
	agent := NewAgent(retriever, validator, booker, alerter, zap.NewNop())

	result := agent.Analyze(context.Background(), "check tire pressure", nil)

	// Retrieval failure leaves an empty excerpt; the response still forms.
	assert.Equal(t, "System Normal. ...", result.Analysis)
	assert.Equal(t, "Not required", result.BookingStatus)
}

func TestAnalyzeNormalQueryEmbedsManualText(t *testing.T) {
	booker := &fakeBooker{}
	alerter := &fakeAlerter{delivered: true}
	validator := &fakeValidator{allowed: true}
	agent := newTestAgent(booker, alerter, validator)

	result := agent.Analyze(context.Background(), "how do I change wiper blades", nil)

	assert.Contains(t, result.Analysis, "No specific manual entry found")
}
