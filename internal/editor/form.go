package editor

import (
	"github.com/rs/zerolog/log"

	"github.com/slateworks/slate/internal/domain"
)

// FormField is one renderable input bound to a flattened content key.
type FormField struct {
	Key   string           `json:"key"` // "<sectionID>.<fieldName>"
	Name  string           `json:"name"`
	Kind  domain.FieldKind `json:"kind"`
	Label string           `json:"label"`
	Value string           `json:"value"`
}

// FormSection groups the renderable fields of one schema section.
type FormSection struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Fields []FormField `json:"fields"`
}

// Form renders the schema-ordered form descriptor for the loaded site.
// Display order comes from the schema, never from the content document.
// Fields with empty or junk names, and fields of unsupported kinds, are
// skipped with a diagnostic log; their siblings still render. Returns nil
// outside the Ready state.
func (s *Session) Form() []FormSection {
	if s.state != StateReady {
		return nil
	}

	sections := make([]FormSection, 0, len(s.site.Schema.Sections))
	for _, sec := range s.site.Schema.Sections {
		fs := FormSection{
			ID:    sec.ID,
			Label: sec.DisplayLabel(),
		}

		for _, f := range sec.Fields {
			if f.Name == "" || f.Name == "undefined" {
				log.Warn().Str("site_id", s.site.ID.String()).Str("section", sec.ID).
					Msg("editor: field with missing or invalid name skipped")
				continue
			}
			if !f.Kind.Supported() {
				log.Warn().Str("site_id", s.site.ID.String()).Str("section", sec.ID).
					Str("field", f.Name).Str("kind", string(f.Kind)).
					Msg("editor: unsupported field kind skipped")
				continue
			}

			key := sec.ID + "." + f.Name
			fs.Fields = append(fs.Fields, FormField{
				Key:   key,
				Name:  f.Name,
				Kind:  f.Kind,
				Label: f.Label,
				Value: s.values[key],
			})
		}

		sections = append(sections, fs)
	}

	return sections
}
