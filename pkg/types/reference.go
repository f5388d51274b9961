// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"sort"
	"strings"
)

// ExtractorName identifies a reference extraction source. It is the key
// that pairs raw records, validity estimates, and priors.
type ExtractorName string

const (
	ExtractorCermine      ExtractorName = "cermine"
	ExtractorGROBID       ExtractorName = "grobid"
	ExtractorRefExtract   ExtractorName = "refextract"
	ExtractorScienceParse ExtractorName = "scienceparse"
	ExtractorHref         ExtractorName = "href"
)

// Field names a reference metadata field. The constants below are the
// known schema; any other Field value addresses Reference.Extra.
type Field string

const (
	FieldRaw         Field = "raw"
	FieldTitle       Field = "title"
	FieldAuthors     Field = "authors"
	FieldYear        Field = "year"
	FieldVolume      Field = "volume"
	FieldIssue       Field = "issue"
	FieldPages       Field = "pages"
	FieldSource      Field = "source"
	FieldReftype     Field = "reftype"
	FieldDOI         Field = "doi"
	FieldIdentifiers Field = "identifiers"
	FieldArxivID     Field = "arxiv_id"
)

// KnownFields lists the schema fields in canonical order.
var KnownFields = []Field{
	FieldRaw, FieldTitle, FieldAuthors, FieldYear, FieldVolume, FieldIssue,
	FieldPages, FieldSource, FieldReftype, FieldDOI, FieldIdentifiers,
	FieldArxivID,
}

// Known reports whether f is part of the fixed schema.
func (f Field) Known() bool {
	for _, k := range KnownFields {
		if k == f {
			return true
		}
	}
	return false
}

// ValueKind says which member of a Value is meaningful.
type ValueKind int

const (
	KindText ValueKind = iota
	KindAuthors
	KindIdentifiers
)

// Kind returns the value kind stored under f.
func (f Field) Kind() ValueKind {
	switch f {
	case FieldAuthors:
		return KindAuthors
	case FieldIdentifiers:
		return KindIdentifiers
	default:
		return KindText
	}
}

// Author is one cited author.
type Author struct {
	GivenNames string `json:"givennames,omitempty" yaml:"givennames,omitempty"`
	Surname    string `json:"surname,omitempty" yaml:"surname,omitempty"`
	FullName   string `json:"fullname,omitempty" yaml:"fullname,omitempty"`
}

// Identifier is a typed external identifier (arxiv, isbn, ...).
type Identifier struct {
	Type  string `json:"identifier_type" yaml:"identifier_type"`
	Value string `json:"identifier" yaml:"identifier"`
}

// Value is a single field value lifted out of a Reference so that fields
// can be compared and voted on uniformly.
type Value struct {
	Kind        ValueKind
	Text        string
	Authors     []Author
	Identifiers []Identifier
}

// TextValue wraps a scalar string.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// AuthorsValue wraps an author list.
func AuthorsValue(a []Author) Value {
	return Value{Kind: KindAuthors, Authors: a}
}

// IdentifiersValue wraps an identifier list.
func IdentifiersValue(ids []Identifier) Value {
	return Value{Kind: KindIdentifiers, Identifiers: ids}
}

// IsBlank reports whether the value is present but carries no content.
func (v Value) IsBlank() bool {
	switch v.Kind {
	case KindAuthors:
		return len(v.Authors) == 0
	case KindIdentifiers:
		return len(v.Identifiers) == 0
	default:
		return strings.TrimSpace(v.Text) == ""
	}
}

// Key returns a canonical string for the value. Two values with equal keys
// are the same vote.
func (v Value) Key() string {
	switch v.Kind {
	case KindAuthors:
		parts := make([]string, len(v.Authors))
		for i, a := range v.Authors {
			parts[i] = strings.Join([]string{a.Surname, a.GivenNames, a.FullName}, "|")
		}
		return strings.Join(parts, ";")
	case KindIdentifiers:
		parts := make([]string, len(v.Identifiers))
		for i, id := range v.Identifiers {
			parts[i] = id.Type + ":" + id.Value
		}
		return strings.Join(parts, ";")
	default:
		return v.Text
	}
}

// String renders the value as plain text for similarity and digests.
func (v Value) String() string {
	switch v.Kind {
	case KindAuthors:
		names := make([]string, 0, len(v.Authors))
		for _, a := range v.Authors {
			names = append(names, a.DisplayName())
		}
		return strings.Join(names, ", ")
	case KindIdentifiers:
		ids := make([]string, 0, len(v.Identifiers))
		for _, id := range v.Identifiers {
			ids = append(ids, id.Value)
		}
		return strings.Join(ids, " ")
	default:
		return v.Text
	}
}

func (v Value) clone() Value {
	out := v
	if v.Authors != nil {
		out.Authors = append([]Author{}, v.Authors...)
	}
	if v.Identifiers != nil {
		out.Identifiers = append([]Identifier{}, v.Identifiers...)
	}
	return out
}

// DisplayName returns the full name, or given names and surname joined.
func (a Author) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return strings.TrimSpace(a.GivenNames + " " + a.Surname)
}

// Reference is one extractor's record for one citation. Scalar fields are
// pointers: nil means the extractor did not produce the field, while a
// pointer to "" means it produced a blank value. Slices follow the same
// rule (nil is absent).
type Reference struct {
	Raw         *string
	Title       *string
	Authors     []Author
	Year        *string
	Volume      *string
	Issue       *string
	Pages       *string
	Source      *string
	Reftype     *string
	DOI         *string
	Identifiers []Identifier
	ArxivID     *string

	// Extra holds fields outside the schema, keyed by their input name.
	Extra map[string]string
}

// Str returns a pointer to s, for building references in code.
func Str(s string) *string {
	return &s
}

func (r *Reference) textSlot(f Field) **string {
	switch f {
	case FieldRaw:
		return &r.Raw
	case FieldTitle:
		return &r.Title
	case FieldYear:
		return &r.Year
	case FieldVolume:
		return &r.Volume
	case FieldIssue:
		return &r.Issue
	case FieldPages:
		return &r.Pages
	case FieldSource:
		return &r.Source
	case FieldReftype:
		return &r.Reftype
	case FieldDOI:
		return &r.DOI
	case FieldArxivID:
		return &r.ArxivID
	}
	return nil
}

// Get returns the value of f and whether the field is present.
func (r Reference) Get(f Field) (Value, bool) {
	switch f {
	case FieldAuthors:
		if r.Authors == nil {
			return Value{}, false
		}
		return AuthorsValue(r.Authors), true
	case FieldIdentifiers:
		if r.Identifiers == nil {
			return Value{}, false
		}
		return IdentifiersValue(r.Identifiers), true
	}
	if slot := r.textSlot(f); slot != nil {
		if *slot == nil {
			return Value{}, false
		}
		return TextValue(**slot), true
	}
	s, ok := r.Extra[string(f)]
	if !ok {
		return Value{}, false
	}
	return TextValue(s), true
}

// Has reports whether f is present.
func (r Reference) Has(f Field) bool {
	_, ok := r.Get(f)
	return ok
}

// Set stores v under f. Slices are copied.
func (r *Reference) Set(f Field, v Value) {
	v = v.clone()
	switch f {
	case FieldAuthors:
		if v.Authors == nil {
			v.Authors = []Author{}
		}
		r.Authors = v.Authors
		return
	case FieldIdentifiers:
		if v.Identifiers == nil {
			v.Identifiers = []Identifier{}
		}
		r.Identifiers = v.Identifiers
		return
	}
	if slot := r.textSlot(f); slot != nil {
		*slot = Str(v.Text)
		return
	}
	if r.Extra == nil {
		r.Extra = make(map[string]string)
	}
	r.Extra[string(f)] = v.Text
}

// Delete removes f from the record.
func (r *Reference) Delete(f Field) {
	switch f {
	case FieldAuthors:
		r.Authors = nil
		return
	case FieldIdentifiers:
		r.Identifiers = nil
		return
	}
	if slot := r.textSlot(f); slot != nil {
		*slot = nil
		return
	}
	delete(r.Extra, string(f))
	if len(r.Extra) == 0 {
		r.Extra = nil
	}
}

// Fields lists present fields: known fields in schema order, then extra
// fields sorted by name.
func (r Reference) Fields() []Field {
	var fields []Field
	for _, f := range KnownFields {
		if r.Has(f) {
			fields = append(fields, f)
		}
	}
	extra := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		fields = append(fields, Field(k))
	}
	return fields
}

// IsEmpty reports whether the record has no fields at all.
func (r Reference) IsEmpty() bool {
	return len(r.Fields()) == 0
}

// Clone returns a deep copy.
func (r Reference) Clone() Reference {
	var out Reference
	for _, f := range r.Fields() {
		v, _ := r.Get(f)
		out.Set(f, v)
	}
	return out
}
