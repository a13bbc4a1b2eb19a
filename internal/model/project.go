package model

import "github.com/procdiff/procdiff/pkg/errors"

// ServiceStep is one step of a service-time trace: an activity paired with
// the time spent on it, in seconds.
type ServiceStep struct {
	Activity string
	Seconds  float64
}

// ActivityTrace extracts the activity sequence from a trace.
// Returns a CodeMissingAttribute error if any event has no activity label.
func ActivityTrace(t *Trace) ([]string, error) {
	out := make([]string, len(t.Events))
	for i := range t.Events {
		if t.Events[i].Activity == "" {
			return nil, errors.MissingAttribute("concept:name", t.CaseID)
		}
		out[i] = t.Events[i].Activity
	}
	return out, nil
}

// ActivityTraces extracts the activity sequence of every trace in the log.
func ActivityTraces(log *EventLog) ([][]string, error) {
	out := make([][]string, len(log.Traces))
	for i := range log.Traces {
		seq, err := ActivityTrace(&log.Traces[i])
		if err != nil {
			return nil, err
		}
		out[i] = seq
	}
	return out, nil
}

// ServiceTimeTrace extracts a service-time trace: a sequence of (activity,
// service time) steps. Requires every event to carry an activity label and a
// start timestamp; see the prepare package for inferring start timestamps on
// logs that only record completion times.
func ServiceTimeTrace(t *Trace) ([]ServiceStep, error) {
	out := make([]ServiceStep, len(t.Events))
	for i := range t.Events {
		evt := &t.Events[i]
		if evt.Activity == "" {
			return nil, errors.MissingAttribute("concept:name", t.CaseID)
		}
		if !evt.HasStart {
			return nil, errors.MissingAttribute("start_timestamp", t.CaseID)
		}
		out[i] = ServiceStep{Activity: evt.Activity, Seconds: evt.ServiceTime()}
	}
	return out, nil
}

// ServiceTimeTraces extracts a service-time trace for every trace in the log.
func ServiceTimeTraces(log *EventLog) ([][]ServiceStep, error) {
	out := make([][]ServiceStep, len(log.Traces))
	for i := range log.Traces {
		steps, err := ServiceTimeTrace(&log.Traces[i])
		if err != nil {
			return nil, err
		}
		out[i] = steps
	}
	return out, nil
}
