package domain

import (
	"encoding/json"
	"fmt"
)

// FieldKind is the tagged enumeration of editor field types. Values outside
// the recognized set are preserved on parse but reported unsupported, so a
// schema written by a newer producer never aborts rendering.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldLongText FieldKind = "long-text"
	FieldImage    FieldKind = "image"
)

// Supported reports whether the kind is one the editor knows how to render.
func (k FieldKind) Supported() bool {
	switch k {
	case FieldText, FieldLongText, FieldImage:
		return true
	default:
		return false
	}
}

// Field is one editable value within a section. Name keys the section's
// content map and must be unique within the section.
type Field struct {
	Name  string    `json:"name"`
	Kind  FieldKind `json:"type"`
	Label string    `json:"label"`
}

// Section is an ordered group of fields. ID keys the content document and
// must be unique within the site.
type Section struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Label  string  `json:"label,omitempty"`
	Fields []Field `json:"fields"`
}

// DisplayLabel returns the section's label, falling back to its type tag.
func (s Section) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Type
}

// Schema describes the editable shape of a site: ordered sections of ordered
// typed fields. It is set at site creation and assumed stable afterwards.
type Schema struct {
	Sections []Section `json:"sections"`
}

// ParseSchema validates an untrusted schema document at the ingestion
// boundary. It fails with ErrMalformedSchema when the top-level shape does
// not carry a sections list; it does not reject unknown field kinds, which
// are handled tolerantly at render time.
func ParseSchema(raw []byte) (Schema, error) {
	var probe struct {
		Sections *json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Schema{}, fmt.Errorf("domain.ParseSchema: %w: %w", ErrMalformedSchema, err)
	}
	if probe.Sections == nil {
		return Schema{}, fmt.Errorf("domain.ParseSchema: missing sections: %w", ErrMalformedSchema)
	}

	var schema Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return Schema{}, fmt.Errorf("domain.ParseSchema: %w: %w", ErrMalformedSchema, err)
	}

	return schema, nil
}

// DefaultSchema is the schema assigned to newly created sites: a single hero
// section with the four standard landing-page fields.
func DefaultSchema() Schema {
	return Schema{
		Sections: []Section{
			{
				ID:   "hero",
				Type: "hero",
				Fields: []Field{
					{Name: "title", Kind: FieldText, Label: "Title"},
					{Name: "subtitle", Kind: FieldText, Label: "Subtitle"},
					{Name: "ctaText", Kind: FieldText, Label: "Button text"},
					{Name: "ctaLink", Kind: FieldText, Label: "Button link"},
				},
			},
		},
	}
}
