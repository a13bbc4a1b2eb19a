// Package ingest reads XES event log files into the in-memory model.
//
// XES (eXtensible Event Stream) is the IEEE standard interchange format for
// process mining event logs. The hypothesis-testing core never parses files
// itself; it consumes the model.EventLog values this package produces.
package ingest

import (
	"compress/gzip"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/procdiff/procdiff/internal/model"
	"github.com/procdiff/procdiff/pkg/errors"
)

// XES attribute keys.
const (
	keyConceptName    = "concept:name"
	keyTimestamp      = "time:timestamp"
	keyStartTimestamp = "start_timestamp"
	keyLifecycle      = "lifecycle:transition"
	keyResource       = "org:resource"
)

// ReadFile reads an XES log from path. Files ending in .gz are transparently
// decompressed.
func ReadFile(path string) (*model.EventLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFileNotFound, "failed to open XES file").
			WithContext("path", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidFormat, "failed to decompress XES file").
				WithContext("path", path)
		}
		defer gz.Close()
		r = gz
	}

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".xes")
	return Read(r, name)
}

// Read parses an XES document into an event log. Trace and event order is
// preserved as encountered in the document.
func Read(r io.Reader, name string) (*model.EventLog, error) {
	dec := xml.NewDecoder(r)
	log := &model.EventLog{Name: name}

	var (
		trace   *model.Trace
		event   *model.Event
		inEvent bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidFormat, "malformed XES document").
				WithContext("log", name)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trace":
				trace = &model.Trace{}
			case "event":
				event = &model.Event{}
				inEvent = true
			case "string", "date", "int", "float", "boolean":
				key, value := attrKeyValue(t)
				if inEvent {
					if err := applyEventAttr(event, t.Name.Local, key, value); err != nil {
						return nil, err
					}
				} else if trace != nil && key == keyConceptName {
					trace.CaseID = value
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "event":
				if trace != nil && event != nil {
					trace.Events = append(trace.Events, *event)
				}
				event = nil
				inEvent = false
			case "trace":
				if trace != nil {
					log.Traces = append(log.Traces, *trace)
				}
				trace = nil
			}
		}
	}

	return log, nil
}

func attrKeyValue(el xml.StartElement) (key, value string) {
	for _, a := range el.Attr {
		switch a.Name.Local {
		case "key":
			key = a.Value
		case "value":
			value = a.Value
		}
	}
	return key, value
}

func applyEventAttr(evt *model.Event, elem, key, value string) error {
	switch key {
	case keyConceptName:
		evt.Activity = value
	case keyLifecycle:
		evt.Lifecycle = value
	case keyResource:
		evt.Resource = value
	case keyTimestamp:
		ts, err := parseTimestamp(value)
		if err != nil {
			return err
		}
		evt.Timestamp = ts
	case keyStartTimestamp:
		if elem != "date" {
			return nil
		}
		ts, err := parseTimestamp(value)
		if err != nil {
			return err
		}
		evt.StartTimestamp = ts
		evt.HasStart = true
	}
	return nil
}

// parseTimestamp accepts the RFC 3339 forms XES exporters emit, with or
// without sub-second precision and timezone colon.
func parseTimestamp(value string) (int64, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixNano(), nil
		}
	}
	return 0, errors.InvalidTimestamp(value)
}
