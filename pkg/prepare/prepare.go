// Package prepare normalizes imported event logs for timed comparisons.
//
// Timed comparisons need a start and a completion timestamp per event, but
// many logs only record completion times, or record activity executions as
// separate "start" and "complete" lifecycle events. This package infers the
// missing pieces: it fills in lifecycle transitions, correlates start and
// complete events into activity instances, and folds each instance into one
// event carrying both timestamps.
//
// Preparation belongs to the import phase: it mutates the log in place and
// must run before the log is handed to a comparator, which treats logs as
// read-only.
package prepare

import (
	"strconv"

	"github.com/procdiff/procdiff/internal/model"
	"github.com/procdiff/procdiff/pkg/errors"
)

// InferLifecycle fills in "complete" for events without lifecycle
// information: events with no recorded lifecycle are assumed atomic.
func InferLifecycle(log *model.EventLog) {
	for i := range log.Traces {
		events := log.Traces[i].Events
		for j := range events {
			if events[j].Lifecycle == "" {
				events[j].Lifecycle = "complete"
			}
		}
	}
}

// InferInstanceIDs assigns instance ids by matching "start" events to
// "complete" events of the same activity in FIFO order: the first started
// execution of an activity is the first to complete. Start events with no
// later complete event keep their id and are dropped by Fold; complete
// events with no earlier start event get a fresh id and count as atomic.
// Events with any other lifecycle transition are left without an id.
func InferInstanceIDs(log *model.EventLog) error {
	for i := range log.Traces {
		if err := inferTraceInstanceIDs(&log.Traces[i]); err != nil {
			return err
		}
	}
	return nil
}

func inferTraceInstanceIDs(t *model.Trace) error {
	pending := make(map[string][]int64)
	var current int64

	for i := range t.Events {
		evt := &t.Events[i]
		if evt.Activity == "" {
			return errors.MissingAttribute("concept:name", t.CaseID)
		}
		switch evt.Lifecycle {
		case "start":
			current++
			evt.InstanceID = strconv.FormatInt(current, 10)
			pending[evt.Activity] = append(pending[evt.Activity], current)
		case "complete":
			ids := pending[evt.Activity]
			if len(ids) > 0 {
				evt.InstanceID = strconv.FormatInt(ids[0], 10)
				pending[evt.Activity] = ids[1:]
			} else {
				current++
				evt.InstanceID = strconv.FormatInt(current, 10)
			}
		}
	}
	// Leftover pending ids mean start events that never completed; Fold
	// drops them.
	return nil
}

// Fold collapses correlated start/complete event pairs into single events.
// Only events with a "complete" transition remain, enriched with the start
// timestamp of their paired start event, or their own completion timestamp
// when the event is atomic. Events with other transitions are dropped.
func Fold(log *model.EventLog) error {
	for i := range log.Traces {
		if err := foldTrace(&log.Traces[i]); err != nil {
			return err
		}
	}
	return nil
}

func foldTrace(t *model.Trace) error {
	starts := make(map[string]int64)
	kept := t.Events[:0]

	for i := range t.Events {
		evt := t.Events[i]
		if evt.InstanceID == "" && evt.Lifecycle != "complete" {
			continue
		}
		switch evt.Lifecycle {
		case "start":
			starts[evt.InstanceID] = evt.Timestamp
		case "complete":
			start, ok := starts[evt.InstanceID]
			if !ok {
				start = evt.Timestamp
			} else {
				delete(starts, evt.InstanceID)
			}
			evt.StartTimestamp = start
			evt.HasStart = true
			kept = append(kept, evt)
		}
	}

	t.Events = kept
	return nil
}

// EnsureStartTimestamps makes every event in the log carry a start
// timestamp, inferring lifecycle transitions and instance ids first where
// they are missing:
//
//  1. If every event already has a start timestamp, nothing happens.
//  2. Events without a lifecycle transition are assumed atomic ("complete").
//  3. Instance ids are inferred FIFO per activity unless every event
//     already carries one.
//  4. Start/complete pairs are folded into single events with both
//     timestamps; unmatched start events are lost.
func EnsureStartTimestamps(log *model.EventLog) error {
	if allEvents(log, func(e *model.Event) bool { return e.HasStart }) {
		return nil
	}

	if !allEvents(log, func(e *model.Event) bool { return e.Lifecycle != "" }) {
		InferLifecycle(log)
	}

	if !allEvents(log, func(e *model.Event) bool { return e.InstanceID != "" }) {
		if err := InferInstanceIDs(log); err != nil {
			return err
		}
	}

	return Fold(log)
}

func allEvents(log *model.EventLog, pred func(e *model.Event) bool) bool {
	for i := range log.Traces {
		for j := range log.Traces[i].Events {
			if !pred(&log.Traces[i].Events[j]) {
				return false
			}
		}
	}
	return true
}
