package domain

import "strings"

// Content is a site's persisted payload: section ID to field name to string
// value. It is validated only implicitly, by the schema, at render and edit
// time.
type Content map[string]map[string]string

// FormValues is the transient flat representation of a content document used
// while an editor form is open: "<sectionID>.<fieldName>" to value.
type FormValues map[string]string

// The literal field key "undefined" is an artifact of sloppy producers and is
// dropped on both directions of the transform rather than round-tripped.
const junkKey = "undefined"

// Flatten converts a nested content document into flat form values. Entries
// with empty or junk field keys are skipped; missing values coerce to the
// empty string. Flatten never fails.
func Flatten(content Content) FormValues {
	flat := make(FormValues)
	for sectionID, fields := range content {
		for name, value := range fields {
			if name == "" || name == junkKey {
				continue
			}
			flat[sectionID+"."+name] = value
		}
	}
	return flat
}

// Unflatten rebuilds a content document from flat form values. A key must
// split into exactly two non-empty dot-delimited parts, neither of them the
// junk literal, or the entry is discarded. Unflatten never fails.
func Unflatten(values FormValues) Content {
	content := make(Content)
	for key, value := range values {
		parts := strings.Split(key, ".")
		if len(parts) != 2 {
			continue
		}
		sectionID, name := parts[0], parts[1]
		if sectionID == "" || name == "" {
			continue
		}
		if sectionID == junkKey || name == junkKey {
			continue
		}
		if _, exists := content[sectionID]; !exists {
			content[sectionID] = make(map[string]string)
		}
		content[sectionID][name] = value
	}
	return content
}
