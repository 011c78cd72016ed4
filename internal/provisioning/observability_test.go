package provisioning

import (
	"bytes"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	events   []Event
	messages []string
	progress []int
	fields   map[string]string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{fields: make(map[string]string)}
}

func (m *MockObserver) Printf(format string, v ...interface{}) {
	m.messages = append(m.messages, format)
}

func (m *MockObserver) Event(event Event) {
	m.events = append(m.events, event)
}

func (m *MockObserver) Progress(task string, current, total int) {
	m.progress = append(m.progress, current)
}

func (m *MockObserver) WithFields(fields map[string]string) Observer {
	newObserver := NewMockObserver()
	for k, v := range m.fields {
		newObserver.fields[k] = v
	}
	for k, v := range fields {
		newObserver.fields[k] = v
	}
	return newObserver
}

func (m *MockObserver) types() []EventType {
	out := make([]EventType, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}

func TestConsoleObserver_Event(t *testing.T) {
	var buf bytes.Buffer
	observer := NewConsoleObserverWithLogger(log.New(&buf, "", 0))

	observer.WithFields(map[string]string{"env": "dev"}).Event(Event{
		Type:     EventResourceChanged,
		Task:     "setup-analysis",
		Resource: "/vagrant/server_config.ini",
		Message:  "file changed",
		Fields:   map[string]string{"kind": "file"},
	})

	assert.Equal(t,
		"resource.changed [setup-analysis] resource=/vagrant/server_config.ini file changed (env=dev, kind=file)\n",
		buf.String())
}

func TestConsoleObserver_Progress(t *testing.T) {
	var buf bytes.Buffer
	observer := NewConsoleObserverWithLogger(log.New(&buf, "", 0))

	observer.Progress("packages", 5, 10)
	observer.Progress("packages", 0, 0)

	assert.Equal(t, "[packages] Progress: 5/10 (50%)\n[packages] Progress: 0/0\n", buf.String())
}

func TestConsoleObserver_WithFieldsDoesNotMutateParent(t *testing.T) {
	parent := NewConsoleObserver()
	child := parent.WithFields(map[string]string{"env": "dev"})

	assert.NotNil(t, child)
	assert.Empty(t, parent.contextFields)
}

func TestLogHelpers(t *testing.T) {
	observer := NewMockObserver()

	LogTaskStart(observer, "t1")
	LogTaskComplete(observer, "t1", time.Second)
	LogTaskFailed(observer, "t2", time.Second, errors.New("boom"))
	LogTaskSkipped(observer, "t3", "not a vagrant environment")
	LogResource(observer, "t4", "package", "git", true)
	LogResource(observer, "t4", "package", "curl", false)

	assert.Equal(t, []EventType{
		EventTaskStarted,
		EventTaskCompleted,
		EventTaskFailed,
		EventTaskSkipped,
		EventResourceChanged,
		EventResourceUnchanged,
	}, observer.types())

	assert.Equal(t, time.Second, observer.events[1].Duration)
	assert.EqualError(t, observer.events[2].Err, "boom")
	assert.Equal(t, "package up to date", observer.events[5].Message)
}

func TestObserver_ImplementsLogger(t *testing.T) {
	var observer Observer = NewConsoleObserver()
	var logger Logger = observer
	assert.NotNil(t, logger)
}
