// Package metadata defines the opaque per-entry payload stored alongside
// vectors. The index never interprets it beyond storing and returning it;
// the only convention is that the original source text lives under TextKey.
package metadata

// TextKey is the metadata key that carries the original source text of an
// entry. Callers populating an index should always set it.
const TextKey = "text"

// SectionKey is the conventional metadata key for a section/category tag
// (e.g. "experience", "education"). Entries carrying it become filterable
// via the index's section filter.
const SectionKey = "section"

// Metadata is an opaque mapping from string keys to values.
type Metadata map[string]any

// Text returns the source text stored under TextKey, or "" if absent or
// not a string.
func (m Metadata) Text() string {
	s, _ := m[TextKey].(string)
	return s
}

// Section returns the section tag stored under SectionKey, or "" if absent
// or not a string.
func (m Metadata) Section() string {
	s, _ := m[SectionKey].(string)
	return s
}

// Clone returns a shallow copy of m. Values are shared; keys are not.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
