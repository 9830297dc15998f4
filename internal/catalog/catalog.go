package catalog

import (
	"fmt"

	"autosync/serving/internal/domain"
)

// Catalog maps diagnostic trouble codes to descriptions and remediation
// advice. The table is fixed at startup; Lookup never fails.
type Catalog struct {
	entries map[string]domain.FaultEntry
}

var defaultEntries = map[string]domain.FaultEntry{
	"P0217": {
		Description: "Engine Overtemp Condition",
		Advice:      "Stop the vehicle and allow the engine to cool before driving further.",
	},
	"P0128": {
		Description: "Coolant Thermostat Below Regulating Temperature",
		Advice:      "Have the thermostat inspected at the next service visit.",
	},
	"P0300": {
		Description: "Random/Multiple Cylinder Misfire Detected",
		Advice:      "Reduce engine load and schedule an ignition system inspection.",
	},
	"P0420": {
		Description: "Catalyst System Efficiency Below Threshold",
		Advice:      "Schedule an exhaust system inspection; continued driving is safe short term.",
	},
	"P0562": {
		Description: "System Voltage Low",
		Advice:      "Check the battery and charging system before the next journey.",
	},
}

func New() *Catalog {
	return &Catalog{entries: defaultEntries}
}

// Lookup resolves a trouble code. Unrecognized codes get the generic
// fallback entry with the raw code embedded in the advice.
func (c *Catalog) Lookup(code string) domain.FaultEntry {
	if entry, ok := c.entries[code]; ok {
		return entry
	}
	return domain.FaultEntry{
		Description: "Critical Unidentified Fault",
		Advice:      fmt.Sprintf("Diagnostic code %s requires manual inspection.", code),
	}
}
