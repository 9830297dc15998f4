package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"autosync/serving/internal/domain"
	"autosync/serving/internal/metrics"
	"autosync/serving/internal/ports"
	"autosync/serving/internal/safety"
)

// Agent answers free-text diagnostic queries with a single fixed decision
// rule: retrieval first, then the overheating branch with its safety check,
// slot lookup and alert, otherwise a system-normal response built from the
// retrieved manual text.
type Agent struct {
	retriever ports.Retriever
	safety    ports.SafetyValidator
	booker    ports.SlotBooker
	alerter   ports.Alerter
	log       *zap.Logger
}

func NewAgent(
	retriever ports.Retriever,
	validator ports.SafetyValidator,
	booker ports.SlotBooker,
	alerter ports.Alerter,
	log *zap.Logger,
) *Agent {
	return &Agent{
		retriever: retriever,
		safety:    validator,
		booker:    booker,
		alerter:   alerter,
		log:       log,
	}
}

var overheatSteps = []string{
	"1. STOP the vehicle immediately.",
	"2. Do not open the radiator cap.",
	"3. Allow engine to cool for 15 minutes.",
}

// Analyze runs the decision rule. It never returns an error: every
// collaborator failure degrades into the response text or a log line.
func (a *Agent) Analyze(ctx context.Context, query string, vehicleData map[string]any) domain.AnalysisResult {
	metrics.AnalyzeRequests.Add(1)
	a.log.Info("agent query received", zap.String("query", query))

	// The manual is always consulted first; the excerpt feeds the
	// fallback branch only.
	excerpt, err := a.retriever.Retrieve(ctx, query)
	if err != nil {
		a.log.Warn("manual retrieval failed", zap.Error(err))
	}

	result := domain.AnalysisResult{
		Analysis:      "Analyzing system parameters...",
		Steps:         []string{},
		BookingStatus: "Not required",
	}

	if !strings.Contains(query, "P0217") && !strings.Contains(strings.ToLower(query), "overheating") {
		result.Analysis = "System Normal. " + truncate(excerpt.Content, 100) + "..."
		return result
	}

	result.Analysis = "CRITICAL: Engine Overtemp (P0217) detected. Immediate action required."
	result.Steps = append([]string{}, overheatSteps...)

	snapshot := vehicleData
	if snapshot == nil {
		snapshot = map[string]any{"temp": 115}
	}

	allowed, reason := a.safety.Validate(ctx, safety.ActionBookService, snapshot)
	if !allowed {
		result.BookingStatus = fmt.Sprintf("Booking blocked by Safety Layer: %s", reason)
		a.log.Warn("booking blocked", zap.String("reason", reason))
		return result
	}

	slot, err := a.booker.FindAvailableSlot(ctx)
	if err != nil {
		a.log.Warn("slot lookup failed", zap.Error(err))
	}
	if slot == nil {
		result.BookingStatus = "No service slots available immediately."
		return result
	}

	alertMessage := fmt.Sprintf(
		"Hello, your car is overheating. I have found a service slot at %s. Booking it now.",
		slot.Time,
	)
	if delivered, err := a.alerter.SendAlert(ctx, alertMessage); err != nil {
		metrics.AlertFailures.Add(1)
		a.log.Warn("alert delivery failed", zap.Error(err))
	} else if !delivered {
		metrics.AlertFailures.Add(1)
		a.log.Warn("alert not delivered")
	} else {
		metrics.AlertsSent.Add(1)
	}

	result.BookingStatus = fmt.Sprintf("Slot found at %s. Auto-booking initiated.", slot.Time)
	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
