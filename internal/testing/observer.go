package testing

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/provisioning"
	"github.com/imamik/devprov/internal/remote"
)

// RecordingObserver is a provisioning.Observer that keeps every event and
// log line.
type RecordingObserver struct {
	mu       sync.Mutex
	events   []provisioning.Event
	messages []string
	fields   map[string]string
}

// NewRecordingObserver returns an empty RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{fields: map[string]string{}}
}

// Printf records a formatted line.
func (o *RecordingObserver) Printf(format string, v ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, fmt.Sprintf(format, v...))
}

// Event records an event.
func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

// Progress records a progress event.
func (o *RecordingObserver) Progress(task string, current, total int) {
	o.Event(provisioning.Event{
		Type:    provisioning.EventProgress,
		Task:    task,
		Message: fmt.Sprintf("%d/%d", current, total),
	})
}

// WithFields returns the same recorder; fields are kept for inspection.
func (o *RecordingObserver) WithFields(fields map[string]string) provisioning.Observer {
	o.mu.Lock()
	defer o.mu.Unlock()
	maps.Copy(o.fields, fields)
	return o
}

// Events returns the recorded events.
func (o *RecordingObserver) Events() []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]provisioning.Event(nil), o.events...)
}

// EventsOfType returns the recorded events of one type.
func (o *RecordingObserver) EventsOfType(t provisioning.EventType) []provisioning.Event {
	var out []provisioning.Event
	for _, e := range o.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns the recorded log lines.
func (o *RecordingObserver) Messages() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.messages...)
}

// NewTaskContext returns a provisioning context for environment "dev"
// whose host executes through exec.
func NewTaskContext(ctx context.Context, cfg *config.Config, exec remote.Executor) (*provisioning.Context, *RecordingObserver) {
	observer := NewRecordingObserver()
	pctx := provisioning.NewContext(ctx, cfg, "dev", remote.NewHost(exec, observer))
	pctx.Observer = observer
	pctx.Target = provisioning.Target{
		Address:  "127.0.0.1",
		Port:     2222,
		User:     "vagrant",
		Provider: "virtualbox",
		Machine:  "default",
	}
	return pctx, observer
}
