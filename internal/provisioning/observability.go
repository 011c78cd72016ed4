package provisioning

import (
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"
	"time"
)

// Logger is the minimal logging interface used by tasks and primitives.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress through the task list
	Progress(task string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Task      string            // Task name (e.g., "apt-get-update", "setup-apache")
	Message   string            // Human-readable message
	Resource  string            // Remote path, package or service if applicable
	Timestamp time.Time         // When the event occurred
	Duration  time.Duration     // Set on completion and failure events
	Err       error             // Set on failure events
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventTaskStarted indicates a task has started.
	EventTaskStarted EventType = "task.started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task.completed"
	// EventTaskFailed indicates a task failed.
	EventTaskFailed EventType = "task.failed"
	// EventTaskSkipped indicates a task had nothing to do for this environment.
	EventTaskSkipped EventType = "task.skipped"

	// EventResourceChanged indicates a resource was modified on the target.
	EventResourceChanged EventType = "resource.changed"
	// EventResourceUnchanged indicates a resource already had its desired state.
	EventResourceUnchanged EventType = "resource.unchanged"

	// EventProgress indicates progress through the task list.
	EventProgress EventType = "progress"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct {
	logger        *log.Logger
	contextFields map[string]string
}

// NewConsoleObserver creates a new console-based observer writing to the
// standard logger.
func NewConsoleObserver() *ConsoleObserver {
	return NewConsoleObserverWithLogger(log.Default())
}

// NewConsoleObserverWithLogger creates a console observer writing to logger.
func NewConsoleObserverWithLogger(logger *log.Logger) *ConsoleObserver {
	return &ConsoleObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	o.logger.Printf(format, v...)
}

// Event implements Observer interface.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Merge context fields
	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}

	o.logger.Print(FormatEvent(event))
}

// Progress implements Observer interface.
func (o *ConsoleObserver) Progress(task string, current, total int) {
	if total == 0 {
		o.logger.Printf("[%s] Progress: %d/%d", task, current, total)
		return
	}
	percentage := (current * 100) / total
	o.logger.Printf("[%s] Progress: %d/%d (%d%%)", task, current, total, percentage)
}

// WithFields implements Observer interface.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	maps.Copy(newFields, o.contextFields)
	maps.Copy(newFields, fields)

	return &ConsoleObserver{
		logger:        o.logger,
		contextFields: newFields,
	}
}

// FormatEvent renders an event as a single log line. Fields are sorted.
func FormatEvent(event Event) string {
	var parts []string

	parts = append(parts, string(event.Type))

	if event.Task != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Task))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}

	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		keys := slices.Sorted(maps.Keys(event.Fields))
		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, event.Fields[k]))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}

// Helper functions for common events

// LogTaskStart logs a task start event.
func LogTaskStart(observer Observer, task string) {
	observer.Event(Event{
		Type:    EventTaskStarted,
		Task:    task,
		Message: "starting",
	})
}

// LogTaskComplete logs a task completion event.
func LogTaskComplete(observer Observer, task string, duration time.Duration) {
	observer.Event(Event{
		Type:     EventTaskCompleted,
		Task:     task,
		Duration: duration,
		Message:  fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogTaskFailed logs a task failure event.
func LogTaskFailed(observer Observer, task string, duration time.Duration, err error) {
	observer.Event(Event{
		Type:     EventTaskFailed,
		Task:     task,
		Duration: duration,
		Err:      err,
		Message:  fmt.Sprintf("failed: %v", err),
	})
}

// LogTaskSkipped logs a task that had nothing to do.
func LogTaskSkipped(observer Observer, task, reason string) {
	observer.Event(Event{
		Type:    EventTaskSkipped,
		Task:    task,
		Message: reason,
	})
}

// LogResource logs the outcome of an idempotent primitive.
func LogResource(observer Observer, task, kind, name string, changed bool) {
	eventType := EventResourceUnchanged
	verb := "up to date"
	if changed {
		eventType = EventResourceChanged
		verb = "changed"
	}
	observer.Event(Event{
		Type:     eventType,
		Task:     task,
		Resource: name,
		Message:  fmt.Sprintf("%s %s", kind, verb),
		Fields: map[string]string{
			"kind": kind,
		},
	})
}
