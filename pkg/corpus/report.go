package corpus

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatusSkipped marks an item the manifest already covered; it is a
// report-only status, never recorded.
const StatusSkipped ItemStatus = "skipped"

// ReportEntry is one item's outcome within a run.
type ReportEntry struct {
	Identifier string     `json:"identifier"`
	Status     ItemStatus `json:"status"`
	OutputPath string     `json:"output_path,omitempty"`
	Anomalies  int        `json:"anomalies,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Report summarizes a batch run.
type Report struct {
	RunID         string        `json:"run_id"`
	Attempted     int           `json:"attempted"`
	Parsed        int           `json:"parsed"`
	LowConfidence int           `json:"low_confidence"`
	Failed        int           `json:"failed"`
	Skipped       int           `json:"skipped"`
	Entries       []ReportEntry `json:"entries"`
}

func (report *Report) add(entry ReportEntry) {
	switch entry.Status {
	case StatusParsed:
		report.Parsed++
	case StatusLowConfidence:
		report.LowConfidence++
	case StatusFailed:
		report.Failed++
	case StatusSkipped:
		report.Skipped++
	}
	report.Entries = append(report.Entries, entry)
}

// Format renders the report for terminal output.
func (report *Report) Format() string {
	var builder strings.Builder

	builder.WriteString("\nCorpus Parse Report\n")
	builder.WriteString(strings.Repeat("═", 70) + "\n")
	builder.WriteString(fmt.Sprintf("Run: %s\n", report.RunID))
	builder.WriteString(fmt.Sprintf("Attempted: %d | Parsed: %d | Low-confidence: %d | Failed: %d | Skipped: %d\n",
		report.Attempted, report.Parsed, report.LowConfidence, report.Failed, report.Skipped))
	builder.WriteString(strings.Repeat("─", 70) + "\n")

	for _, entry := range report.Entries {
		status := "[OK]"
		switch entry.Status {
		case StatusLowConfidence:
			status = "[LOW]"
		case StatusFailed:
			status = "[FAIL]"
		case StatusSkipped:
			status = "[SKIP]"
		}

		line := fmt.Sprintf("  %-8s %-30s", status, entry.Identifier)
		if entry.Anomalies > 0 {
			line += fmt.Sprintf(" (%d anomalies)", entry.Anomalies)
		}
		if entry.Error != "" {
			line += fmt.Sprintf(" error: %s", entry.Error)
		}
		builder.WriteString(line + "\n")
	}

	return builder.String()
}

// JSON renders the report as indented JSON.
func (report *Report) JSON() string {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
