package domain

import (
	"strings"
	"time"
)

// Reading is a single on-board-diagnostics sample from the replay dataset.
// Readings are loaded once at startup and shared read-only across sessions;
// the engine copies a reading before annotating it.
type Reading struct {
	Timestamp string  `json:"timestamp"`
	RPM       int     `json:"rpm"`
	Speed     int     `json:"speed"`
	Temp      int     `json:"temp"`
	DTC       *string `json:"dtc"`

	// Alert is set on at most one emitted reading per session: the one that
	// triggered escalation and got a slot booked.
	Alert string `json:"alert,omitempty"`
}

// FaultCode returns the trouble code carried by the reading, or "" when the
// reading is fault-free. Placeholder values left behind by the dataset
// exporter ("None", "nan") count as fault-free.
func (r *Reading) FaultCode() string {
	if r.DTC == nil {
		return ""
	}
	code := strings.TrimSpace(*r.DTC)
	if code == "" || code == "None" || code == "nan" {
		return ""
	}
	return code
}

// HasFault reports whether the reading carries a qualifying trouble code.
func (r *Reading) HasFault() bool {
	return r.FaultCode() != ""
}

// FaultEntry is one row of the fault catalog.
type FaultEntry struct {
	Description string `json:"description"`
	Advice      string `json:"advice"`
}

// Slot is a bookable service window. Field names follow the slot calendar
// payload the dashboard frontend consumes.
type Slot struct {
	SlotID string `json:"SlotID"`
	Date   string `json:"Date"`
	Time   string `json:"Time"`
}

type BookingStatus string

const (
	BookingBooked    BookingStatus = "BOOKED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// BookingRecord is one row of a vehicle's service history.
type BookingRecord struct {
	SlotID     string        `json:"SlotID"`
	Date       string        `json:"Date"`
	Time       string        `json:"Time"`
	Status     BookingStatus `json:"Status"`
	VehicleReg string        `json:"VehicleReg"`
}

// AnalysisResult is the synchronous response of the agent analysis path.
type AnalysisResult struct {
	Analysis      string   `json:"analysis"`
	Steps         []string `json:"steps"`
	BookingStatus string   `json:"booking_status"`
}

// ManualExcerpt is a retrieval result: manual text plus source metadata.
type ManualExcerpt struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
}

// EscalationEvent records one fired escalation for the append log and the
// live event channel.
type EscalationEvent struct {
	SessionID   string    `json:"session_id"`
	VehicleReg  string    `json:"vehicle_reg"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Temp        int       `json:"temp"`
	SlotID      string    `json:"slot_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ArchivedReading pairs an emitted reading with its session for the archive
// writer.
type ArchivedReading struct {
	SessionID string
	Reading   Reading
	EmittedAt time.Time
}
