package engine

import (
	"context"
	"errors"
	"sync"

	"autosync/serving/internal/domain"
)

type fakeBooker struct {
	mu        sync.Mutex
	slot      *domain.Slot
	bookOK    bool
	findErr   error
	findCalls int
	bookCalls int
	booked    []string
}

func (f *fakeBooker) FindAvailableSlot(ctx context.Context) (*domain.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.slot == nil {
		return nil, nil
	}
	s := *f.slot
	return &s, nil
}

func (f *fakeBooker) BookSlot(ctx context.Context, slotID, vehicleReg string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookCalls++
	if !f.bookOK {
		return false, nil
	}
	f.booked = append(f.booked, slotID)
	return true, nil
}

func (f *fakeBooker) History(ctx context.Context, vehicleReg string) ([]domain.BookingRecord, error) {
	return nil, nil
}

type fakeAlerter struct {
	mu        sync.Mutex
	delivered bool
	err       error
	calls     int
	messages  []string
}

func (f *fakeAlerter) SendAlert(ctx context.Context, message string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.messages = append(f.messages, message)
	if f.err != nil {
		return false, f.err
	}
	return f.delivered, nil
}

type fakeRetriever struct {
	excerpt domain.ManualExcerpt
	err     error
	queries []string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) (domain.ManualExcerpt, error) {
	f.queries = append(f.queries, query)
	return f.excerpt, f.err
}

type fakeValidator struct {
	allowed   bool
	reason    string
	action    string
	snapshots []map[string]any
}

func (f *fakeValidator) Validate(ctx context.Context, action string, snapshot map[string]any) (bool, string) {
	f.action = action
	f.snapshots = append(f.snapshots, snapshot)
	return f.allowed, f.reason
}

// collectSink gathers emitted readings and reports the transport closed
// after limit emissions.
type collectSink struct {
	mu       sync.Mutex
	readings []domain.Reading
	limit    int
}

var errTransportClosed = errors.New("transport closed")

func (s *collectSink) Emit(reading domain.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit > 0 && len(s.readings) >= s.limit {
		return errTransportClosed
	}
	s.readings = append(s.readings, reading)
	return nil
}

func (s *collectSink) collected() []domain.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reading, len(s.readings))
	copy(out, s.readings)
	return out
}
