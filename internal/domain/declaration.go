package domain

// Declaration is the map of form-field values representing what is
// currently known about an event. Keys are field ids from the event
// configuration; values are JSON-shaped (string, bool, float64, map, slice).
type Declaration map[string]any

// Merge shallow-merges other into a copy of d: for every field present in
// other, the value overrides d's. Neither input is mutated.
func (d Declaration) Merge(other Declaration) Declaration {
	out := make(Declaration, len(d)+len(other))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy of d.
func (d Declaration) Clone() Declaration {
	out := make(Declaration, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// FileReference is a document-store attachment embedded in a declaration
// field value. Path is opaque to the engine.
type FileReference struct {
	Type             string `json:"type"`
	OriginalFilename string `json:"originalFilename"`
	Path             string `json:"path"`
}

// FileReferences extracts every attachment reference from the declaration.
// A reference is any field value (or element of a slice value) shaped like
// {"path": ..., "originalFilename": ...}.
func (d Declaration) FileReferences() []FileReference {
	var refs []FileReference
	for _, v := range d {
		switch val := v.(type) {
		case map[string]any:
			if ref, ok := asFileReference(val); ok {
				refs = append(refs, ref)
			}
		case []any:
			for _, item := range val {
				if m, ok := item.(map[string]any); ok {
					if ref, ok := asFileReference(m); ok {
						refs = append(refs, ref)
					}
				}
			}
		}
	}
	return refs
}

func asFileReference(m map[string]any) (FileReference, bool) {
	path, ok := m["path"].(string)
	if !ok || path == "" {
		return FileReference{}, false
	}
	name, ok := m["originalFilename"].(string)
	if !ok {
		return FileReference{}, false
	}
	ref := FileReference{OriginalFilename: name, Path: path}
	if t, ok := m["type"].(string); ok {
		ref.Type = t
	}
	return ref, true
}
