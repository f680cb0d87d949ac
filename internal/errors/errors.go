package errors

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
)

// DefaultCollectorLimit bounds how many errors a collector keeps.
const DefaultCollectorLimit = 100

// Report is an error recorded by an ErrorCollector.
type Report struct {
	Type      ErrorType `json:"type"`
	Code      string    `json:"code,omitempty"`
	Component string    `json:"component,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorCollector keeps the most recent errors seen by a long-running process,
// such as delegate contract reports from the preview server.
type ErrorCollector struct {
	reports []Report
	limit   int
	mutex   sync.RWMutex
}

// NewErrorCollector creates a collector that keeps at most limit reports.
// A non-positive limit uses DefaultCollectorLimit.
func NewErrorCollector(limit int) *ErrorCollector {
	if limit <= 0 {
		limit = DefaultCollectorLimit
	}
	return &ErrorCollector{
		reports: make([]Report, 0),
		limit:   limit,
	}
}

// Add records err, dropping the oldest report when the collector is full.
func (ec *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}

	report := Report{
		Type:      ErrorTypeInternal,
		Message:   err.Error(),
		Timestamp: time.Now(),
	}
	var ce *ComponentError
	if errors.As(err, &ce) {
		report.Type = ce.Type
		report.Code = ce.Code
		report.Component = ce.Component
	}

	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	if len(ec.reports) >= ec.limit {
		ec.reports = append(ec.reports[:0], ec.reports[1:]...)
	}
	ec.reports = append(ec.reports, report)
}

// Reports returns a copy of the recorded reports, oldest first.
func (ec *ErrorCollector) Reports() []Report {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]Report, len(ec.reports))
	copy(result, ec.reports)
	return result
}

// ByComponent returns the reports recorded for component.
func (ec *ErrorCollector) ByComponent(component string) []Report {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var out []Report
	for _, r := range ec.reports {
		if r.Component == component {
			out = append(out, r)
		}
	}
	return out
}

// HasErrors returns true if there are any reports.
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.reports) > 0
}

// Count returns the number of reports.
func (ec *ErrorCollector) Count() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.reports)
}

// Clear clears all reports.
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.reports = ec.reports[:0]
}

// ErrorOverlay renders the reports for component as an HTML panel. It returns
// "" when there is nothing to show.
func (ec *ErrorCollector) ErrorOverlay(component string) string {
	reports := ec.ByComponent(component)
	if len(reports) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<div id="tessera-error-overlay" class="fixed bottom-0 left-0 right-0 max-h-64 overflow-auto bg-black/80 p-4 font-mono text-sm text-white">`)
	b.WriteString(`<h2 class="mb-2 font-bold text-red-400">Component reports</h2>`)
	for _, r := range reports {
		color := "text-red-300"
		if r.Type == ErrorTypeDelegateContract {
			color = "text-yellow-300"
		}
		fmt.Fprintf(&b,
			`<div class="mb-2"><span class="%s">%s</span> <span class="text-gray-400">%s</span><div>%s</div></div>`,
			color,
			templ.EscapeString(r.Code),
			r.Timestamp.Format("15:04:05"),
			templ.EscapeString(r.Message),
		)
	}
	b.WriteString(`</div>`)
	return b.String()
}
