// Package transform turns raw feed lines into documents ready for storage.
package transform

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	dps "github.com/markusmobius/go-dateparser"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/vvka-141/docload/pkg/docload"
)

// Transformer validates a record's id and created fields and rewrites
// created to integer epoch seconds. Every other byte of the line is kept.
//
// A key that appears more than once resolves to its last occurrence, as
// PostgreSQL jsonb does. Earlier occurrences of id and created are dropped
// from the body.
type Transformer struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Transformer that interprets zone-less timestamps in loc.
// A nil loc means UTC.
func New(loc *time.Location) *Transformer {
	if loc == nil {
		loc = time.UTC
	}
	return &Transformer{loc: loc, now: time.Now}
}

// Transform implements docload.Transformer.
func (t *Transformer) Transform(line []byte) (docload.Document, error) {
	if !gjson.ValidBytes(line) {
		return docload.Document{}, fmt.Errorf("%w: not valid JSON: %q", docload.ErrMalformedRecord, docload.Preview(string(line)))
	}
	record := gjson.ParseBytes(line)
	if !record.IsObject() {
		return docload.Document{}, fmt.Errorf("%w: expected a JSON object: %q", docload.ErrMalformedRecord, docload.Preview(string(line)))
	}

	idField := lastField(record, docload.IDField)
	id, err := parseID(idField.value)
	if err != nil {
		return docload.Document{}, err
	}

	createdField := lastField(record, docload.CreatedField)
	created, err := t.parseCreated(createdField.value)
	if err != nil {
		return docload.Document{}, err
	}

	body, err := dropEarlier(line, docload.IDField, idField.count)
	if err != nil {
		return docload.Document{}, err
	}
	body, err = dropEarlier(body, docload.CreatedField, createdField.count)
	if err != nil {
		return docload.Document{}, err
	}

	body, err = sjson.SetBytes(body, docload.CreatedField, created.Unix())
	if err != nil {
		return docload.Document{}, fmt.Errorf("%w: rewrite %s: %v", docload.ErrMalformedRecord, docload.CreatedField, err)
	}

	return docload.Document{ID: id, Body: body}, nil
}

type field struct {
	value gjson.Result
	count int
}

// lastField returns the last top-level value stored under name and the
// number of times name occurs.
func lastField(record gjson.Result, name string) field {
	var f field
	record.ForEach(func(key, value gjson.Result) bool {
		if key.Str == name {
			f.value = value
			f.count++
		}
		return true
	})
	return f
}

// dropEarlier deletes all but the last of count occurrences of name.
// sjson always addresses the first match.
func dropEarlier(body []byte, name string, count int) ([]byte, error) {
	for ; count > 1; count-- {
		var err error
		body, err = sjson.DeleteBytes(body, name)
		if err != nil {
			return nil, fmt.Errorf("%w: drop duplicate %s: %v", docload.ErrMalformedRecord, name, err)
		}
	}
	return body, nil
}

func parseID(v gjson.Result) (uuid.UUID, error) {
	if !v.Exists() {
		return uuid.Nil, fmt.Errorf("%w: missing %q field", docload.ErrInvalidIdentifier, docload.IDField)
	}
	if v.Type != gjson.String {
		return uuid.Nil, fmt.Errorf("%w: %q must be a string, got %s", docload.ErrInvalidIdentifier, docload.IDField, v.Raw)
	}
	id, err := uuid.Parse(v.Str)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q: %v", docload.ErrInvalidIdentifier, docload.Preview(v.Str), err)
	}
	return id, nil
}

func (t *Transformer) parseCreated(v gjson.Result) (time.Time, error) {
	if !v.Exists() {
		return time.Time{}, fmt.Errorf("%w: missing %q field", docload.ErrInvalidTimestamp, docload.CreatedField)
	}
	if v.Type != gjson.String {
		return time.Time{}, fmt.Errorf("%w: %q must be a string, got %s", docload.ErrInvalidTimestamp, docload.CreatedField, docload.Preview(v.Raw))
	}

	// Relative phrases ("yesterday", "2 days ago") resolve against now.
	cfg := &dps.Configuration{
		CurrentTime:     t.now().In(t.loc),
		DefaultTimezone: t.loc,
	}
	dt, err := dps.Parse(cfg, v.Str)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", docload.ErrInvalidTimestamp, docload.Preview(v.Str), err)
	}
	if dt.Time.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %q: not a recognizable date", docload.ErrInvalidTimestamp, docload.Preview(v.Str))
	}
	return dt.Time, nil
}
