// Package model defines core data structures for procdiff.
package model

import "time"

// Event represents a single process mining event.
// Timestamps are stored as int64 nanoseconds since Unix epoch.
type Event struct {
	// Activity is the event name/activity label ("concept:name").
	Activity string

	// Timestamp is the completion timestamp in nanoseconds since Unix epoch
	// ("time:timestamp").
	Timestamp int64

	// StartTimestamp in nanoseconds since Unix epoch. Only meaningful when
	// HasStart is true; set during preparation by pairing start/complete
	// lifecycle events.
	StartTimestamp int64

	// HasStart reports whether StartTimestamp carries a value.
	HasStart bool

	// Lifecycle is the lifecycle transition ("lifecycle:transition"),
	// e.g. "start" or "complete". Empty means unknown.
	Lifecycle string

	// Resource is the actor/resource performing the activity.
	Resource string

	// InstanceID correlates start and complete events of the same activity
	// instance. Assigned during preparation.
	InstanceID string
}

// ServiceTime returns the duration between start and completion in seconds.
// Events without a start timestamp are considered atomic and return 0.
func (e *Event) ServiceTime() float64 {
	if !e.HasStart {
		return 0
	}
	return time.Duration(e.Timestamp - e.StartTimestamp).Seconds()
}

// Trace is one recorded execution instance: an ordered sequence of events.
// Event order encodes control flow and is never reordered by this module.
type Trace struct {
	// CaseID identifies the process instance.
	CaseID string

	Events []Event
}

// EventLog is an ordered collection of traces. Trace order is irrelevant for
// statistics but kept stable for reproducibility.
type EventLog struct {
	// Name identifies the log, typically the source file name.
	Name string

	Traces []Trace
}

// NumEvents returns the total number of events across all traces.
func (l *EventLog) NumEvents() int {
	n := 0
	for i := range l.Traces {
		n += len(l.Traces[i].Events)
	}
	return n
}

// IsEmpty reports whether the log contains no traces.
func (l *EventLog) IsEmpty() bool {
	return l == nil || len(l.Traces) == 0
}
