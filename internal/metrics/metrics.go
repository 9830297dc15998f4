package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	SessionsStarted  atomic.Int64
	SessionsClosed   atomic.Int64
	ReadingsEmitted  atomic.Int64
	AlertsSent       atomic.Int64
	AlertFailures    atomic.Int64
	BookingsMade     atomic.Int64
	BookingFailures  atomic.Int64
	AnalyzeRequests  atomic.Int64
	RecorderDrops    atomic.Int64
	ArchiveBatchFail atomic.Int64
)

func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "serving_sessions_started_total %d\n", SessionsStarted.Load())
	fmt.Fprintf(w, "serving_sessions_closed_total %d\n", SessionsClosed.Load())
	fmt.Fprintf(w, "serving_readings_emitted_total %d\n", ReadingsEmitted.Load())
	fmt.Fprintf(w, "serving_alerts_sent_total %d\n", AlertsSent.Load())
	fmt.Fprintf(w, "serving_alert_failures_total %d\n", AlertFailures.Load())
	fmt.Fprintf(w, "serving_bookings_made_total %d\n", BookingsMade.Load())
	fmt.Fprintf(w, "serving_booking_failures_total %d\n", BookingFailures.Load())
	fmt.Fprintf(w, "serving_analyze_requests_total %d\n", AnalyzeRequests.Load())
	fmt.Fprintf(w, "serving_recorder_drops_total %d\n", RecorderDrops.Load())
	fmt.Fprintf(w, "serving_archive_batch_failures_total %d\n", ArchiveBatchFail.Load())
}
