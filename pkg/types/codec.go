// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalJSON writes the reference as a flat object keyed by field name.
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.flatten())
}

// MarshalYAML mirrors MarshalJSON for YAML encoders.
func (r Reference) MarshalYAML() (interface{}, error) {
	return r.flatten(), nil
}

func (r Reference) flatten() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Fields()))
	for _, f := range r.Fields() {
		v, _ := r.Get(f)
		switch v.Kind {
		case KindAuthors:
			out[string(f)] = v.Authors
		case KindIdentifiers:
			out[string(f)] = v.Identifiers
		default:
			out[string(f)] = v.Text
		}
	}
	return out
}

// UnmarshalJSON reads a flat reference object. Scalar fields accept strings,
// numbers, and booleans; null leaves a field absent. Keys outside the
// schema land in Extra.
func (r *Reference) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding reference: %w", err)
	}
	*r = Reference{}
	for key, msg := range raw {
		if isNull(msg) {
			continue
		}
		f := Field(key)
		switch f {
		case FieldAuthors:
			var authors []Author
			if err := json.Unmarshal(msg, &authors); err != nil {
				return fmt.Errorf("decoding %s: %w", key, err)
			}
			r.Set(f, AuthorsValue(authors))
		case FieldIdentifiers:
			var ids []Identifier
			if err := json.Unmarshal(msg, &ids); err != nil {
				return fmt.Errorf("decoding %s: %w", key, err)
			}
			r.Set(f, IdentifiersValue(ids))
		default:
			s, err := scalarString(msg)
			if err != nil {
				return fmt.Errorf("decoding %s: %w", key, err)
			}
			r.Set(f, TextValue(s))
		}
	}
	return nil
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

// scalarString coerces a JSON scalar to a string. Objects and arrays are
// kept as compact JSON text so that unknown structured fields survive.
func scalarString(msg json.RawMessage) (string, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, msg); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}

// MarshalJSON writes the arbitrated reference with its score inline.
func (a ArbitratedRecord) MarshalJSON() ([]byte, error) {
	out := a.Reference.flatten()
	out[scoreKey] = a.Score
	return json.Marshal(out)
}

// MarshalYAML mirrors MarshalJSON for YAML encoders.
func (a ArbitratedRecord) MarshalYAML() (interface{}, error) {
	out := a.Reference.flatten()
	out[scoreKey] = a.Score
	return out, nil
}

// UnmarshalJSON reads a record written by MarshalJSON.
func (a *ArbitratedRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding arbitrated record: %w", err)
	}
	*a = ArbitratedRecord{}
	if msg, ok := raw[scoreKey]; ok {
		if err := json.Unmarshal(msg, &a.Score); err != nil {
			return fmt.Errorf("decoding score: %w", err)
		}
		delete(raw, scoreKey)
	}
	rest, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(rest, &a.Reference)
}
