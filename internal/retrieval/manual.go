package retrieval

import (
	"context"
	"strings"

	"autosync/serving/internal/domain"
)

const overtempPage = `DTC CODE: P0217
Description: Engine Overtemp Condition.
Diagnosis: The engine coolant temperature has exceeded the safe threshold (usually 240F / 115C).
Immediate Action: Stop the vehicle, turn off engine, check coolant levels.
Severity: CRITICAL. Risk of permanent engine block damage.`

// ManualStub is the demo retriever: it answers overheating queries with the
// relevant manual page and everything else with a no-entry fallback. It
// stands in for a real document index behind the same interface.
type ManualStub struct{}

func NewManualStub() *ManualStub {
	return &ManualStub{}
}

func (m *ManualStub) Retrieve(ctx context.Context, query string) (domain.ManualExcerpt, error) {
	if strings.Contains(query, "P0217") || strings.Contains(strings.ToLower(query), "overheating") {
		return domain.ManualExcerpt{
			Content: overtempPage,
			Source:  "car_service_manual.pdf",
			Page:    4,
		}, nil
	}
	return domain.ManualExcerpt{
		Content: "No specific manual entry found for this query.",
	}, nil
}
