package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"autosync/serving/internal/catalog"
	"autosync/serving/internal/domain"
	"autosync/serving/internal/metrics"
	"autosync/serving/internal/pipeline"
	"autosync/serving/internal/ports"
	"autosync/serving/internal/telemetry"
)

// Sink receives emitted readings. The websocket handler adapts the
// connection to this; a returned error means the transport is gone and the
// session must end.
type Sink interface {
	Emit(reading domain.Reading) error
}

type sessionState string

const (
	stateStreaming sessionState = "STREAMING"
	stateEscalated sessionState = "ESCALATED"
	stateClosed    sessionState = "CLOSED"
)

// session is one streaming connection's escalation state. The latch flips
// to true at most once and never resets; a later fault, same code or not,
// is ignored for the session's lifetime.
type session struct {
	id        string
	triggered bool
	state     sessionState
}

// Replay streams the fixed telemetry sequence to each connected session at
// a fixed cadence and escalates exactly once per session on the first
// qualifying fault.
type Replay struct {
	source   *telemetry.Source
	catalog  *catalog.Catalog
	booker   ports.SlotBooker
	alerter  ports.Alerter
	recorder *pipeline.Recorder

	vehicleReg string
	interval   time.Duration
	log        *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewReplay(
	source *telemetry.Source,
	cat *catalog.Catalog,
	booker ports.SlotBooker,
	alerter ports.Alerter,
	recorder *pipeline.Recorder,
	vehicleReg string,
	interval time.Duration,
	log *zap.Logger,
) *Replay {
	return &Replay{
		source:     source,
		catalog:    cat,
		booker:     booker,
		alerter:    alerter,
		recorder:   recorder,
		vehicleReg: vehicleReg,
		interval:   interval,
		log:        log,
		sessions:   make(map[string]*session),
	}
}

// ActiveSessions returns the number of sessions currently streaming.
func (e *Replay) ActiveSessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// RunSession replays the dataset to sink until the context is cancelled or
// the sink reports the transport closed. The sequence wraps indefinitely.
// A panic during tick processing is caught here: it closes this session and
// nothing else.
func (e *Replay) RunSession(ctx context.Context, sink Sink) {
	sess := e.openSession()
	log := e.log.With(zap.String("session_id", sess.id))
	log.Info("session started", zap.Int("readings", e.source.Len()))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("session tick failure", zap.Any("panic", rec))
		}
		e.closeSession(sess)
		log.Info("session closed")
	}()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		for _, reading := range e.source.Readings() {
			point := reading
			if point.HasFault() && !sess.triggered {
				e.escalate(ctx, sess, &point, log)
				sess.triggered = true
				sess.state = stateEscalated
			}

			if err := sink.Emit(point); err != nil {
				log.Debug("transport closed", zap.Error(err))
				return
			}
			metrics.ReadingsEmitted.Add(1)
			e.recorder.RecordReading(sess.id, point)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}

// escalate runs the one-shot alert and booking attempt. Every collaborator
// failure is downgraded to a log line; the tick loop never aborts here.
func (e *Replay) escalate(ctx context.Context, sess *session, point *domain.Reading, log *zap.Logger) {
	code := point.FaultCode()
	entry := e.catalog.Lookup(code)
	log.Warn("fault detected, escalating",
		zap.String("code", code),
		zap.String("description", entry.Description),
		zap.Int("temp", point.Temp),
	)

	message := fmt.Sprintf(
		"Critical fault %s detected: %s. Coolant temperature is %d degrees. %s This concerns vehicle %s. Scheduling service now.",
		code, entry.Description, point.Temp, entry.Advice, SpellRegistration(e.vehicleReg),
	)

	delivered, err := e.alerter.SendAlert(ctx, message)
	switch {
	case err != nil:
		metrics.AlertFailures.Add(1)
		log.Warn("alert delivery failed", zap.Error(err))
	case !delivered:
		metrics.AlertFailures.Add(1)
		log.Warn("alert not delivered")
	default:
		metrics.AlertsSent.Add(1)
	}

	event := domain.EscalationEvent{
		SessionID:   sess.id,
		VehicleReg:  e.vehicleReg,
		Code:        code,
		Description: entry.Description,
		Temp:        point.Temp,
		OccurredAt:  time.Now(),
	}

	slot, err := e.booker.FindAvailableSlot(ctx)
	if err != nil {
		metrics.BookingFailures.Add(1)
		log.Warn("slot lookup failed", zap.Error(err))
	} else if slot == nil {
		log.Info("no slots available for auto-booking")
	} else {
		booked, err := e.booker.BookSlot(ctx, slot.SlotID, e.vehicleReg)
		if err != nil {
			metrics.BookingFailures.Add(1)
			log.Warn("slot booking failed", zap.String("slot_id", slot.SlotID), zap.Error(err))
		} else if !booked {
			metrics.BookingFailures.Add(1)
			log.Warn("slot no longer available", zap.String("slot_id", slot.SlotID))
		} else {
			metrics.BookingsMade.Add(1)
			point.Alert = fmt.Sprintf("Service Booked: %s %s", slot.Date, slot.Time)
			event.SlotID = slot.SlotID
			log.Info("auto-booked service slot",
				zap.String("slot_id", slot.SlotID),
				zap.String("vehicle_reg", e.vehicleReg),
			)
		}
	}

	e.recorder.RecordEscalation(event)
}

func (e *Replay) openSession() *session {
	sess := &session{id: uuid.NewString(), state: stateStreaming}
	e.mu.Lock()
	e.sessions[sess.id] = sess
	e.mu.Unlock()
	metrics.SessionsStarted.Add(1)
	return sess
}

func (e *Replay) closeSession(sess *session) {
	sess.state = stateClosed
	e.mu.Lock()
	delete(e.sessions, sess.id)
	e.mu.Unlock()
	metrics.SessionsClosed.Add(1)
}

// SpellRegistration expands a compact registration into the letter/digit
// grouping used in spoken alerts: "TN-22-BJ-2730" becomes
// "T N 2 2 B J 2 7 3 0".
func SpellRegistration(reg string) string {
	var parts []string
	for _, r := range reg {
		if r == '-' || r == ' ' {
			continue
		}
		parts = append(parts, string(r))
	}
	return strings.Join(parts, " ")
}
