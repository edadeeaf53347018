// Package rundocs fetches a run's documents and keeps the open run's
// document set in step with live pushes.
package rundocs

import (
	"encoding/json"
	"fmt"
)

// Document is one opaque run document as decoded from JSON.
type Document map[string]any

// UID returns the document's own uid, if it has a string one.
func (d Document) UID() string {
	return d.str("uid")
}

// RunStart returns the uid of the run start document this one belongs to.
func (d Document) RunStart() string {
	return d.str("run_start")
}

// BelongsTo reports whether the document identifies itself with run uid,
// either as the run's start document or by back-reference.
func (d Document) BelongsTo(uid string) bool {
	if uid == "" {
		return false
	}
	return d.UID() == uid || d.RunStart() == uid
}

// Parents returns the uids this document references inside its run: the
// descriptor of an event and the resource of a datum.
func (d Document) Parents() []string {
	var out []string
	for _, key := range []string{"descriptor", "resource"} {
		if ref := d.str(key); ref != "" {
			out = append(out, ref)
		}
	}
	return out
}

// Kind names the document type. An explicit "type" field wins; otherwise the
// type is inferred from the fields each bluesky document kind carries.
func (d Document) Kind() string {
	if t := d.str("type"); t != "" {
		return t
	}
	switch {
	case d.has("exit_status"):
		return "stop"
	case d.has("data_keys"):
		return "descriptor"
	case d.has("descriptor") && d.has("data"):
		if _, paged := d["seq_num"].([]any); paged {
			return "event_page"
		}
		if d.str("name") == "event_page" {
			return "event_page"
		}
		return "event"
	case d.has("datum_id"):
		return "datum"
	case d.has("spec") && d.has("root"):
		return "resource"
	case d.has("time") && !d.has("run_start"):
		return "start"
	}
	if n := d.str("name"); n != "" {
		return n
	}
	return "document"
}

// Summary is the one-line label shown in document lists.
func (d Document) Summary() string {
	label := d.str("name")
	if label == "" {
		label = d.Kind()
	}
	uid := d.UID()
	if uid == "" {
		return label
	}
	return fmt.Sprintf("%s  %s", label, uid)
}

// Fingerprint is the document's canonical JSON encoding. encoding/json sorts
// map keys, so equal documents always produce equal fingerprints.
func (d Document) Fingerprint() string {
	b, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(b)
}

// Pretty renders the document as indented JSON.
func (d Document) Pretty() string {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(d))
	}
	return string(b)
}

func (d Document) str(key string) string {
	s, _ := d[key].(string)
	return s
}

func (d Document) has(key string) bool {
	_, ok := d[key]
	return ok
}

// FromAny converts a decoded JSON value into a Document. Non-object values
// are rejected.
func FromAny(v any) (Document, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Document(obj), true
}
