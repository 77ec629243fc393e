// Package updates searches and summarises the local update-notes document.
//
// The document is a JSON object of sections, each mapping a sub-category to
// an object of key/value notes. Key order from the file is preserved so the
// first match is the first in document order.
package updates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Sections are scanned by Search in this order.
var Sections = []string{"Highlights", "Notable Changes", "Other Changes"}

const (
	// NotFound is returned by Search when nothing matches.
	NotFound = "No updates found for the specified keyword."

	noDescription   = "No description available."
	noDocumentation = "No documentation available."
)

// Entry holds the notes of one sub-category.
type Entry = orderedmap.OrderedMap[string, any]

// Section maps sub-category names to their entries.
type Section = orderedmap.OrderedMap[string, *Entry]

// Document is a parsed update-notes file.
type Document struct {
	sections *orderedmap.OrderedMap[string, *Section]
}

// Empty returns a document with no sections.
func Empty() *Document {
	return &Document{sections: orderedmap.New[string, *Section]()}
}

// Parse decodes an update-notes document. Only malformed JSON or a top level
// that is not an object is an error. Sections and sub-categories that are
// not objects are dropped so the rest of the document stays searchable.
func Parse(data []byte) (*Document, error) {
	if !isObject(data) {
		return nil, fmt.Errorf("parsing update notes: %w", ErrNotObject)
	}

	raw := orderedmap.New[string, json.RawMessage]()
	if err := raw.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("parsing update notes: %w", err)
	}

	doc := Empty()
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		subs, ok := decodeObject[json.RawMessage](pair.Value)
		if !ok {
			continue
		}

		section := orderedmap.New[string, *Entry]()
		for sub := subs.Oldest(); sub != nil; sub = sub.Next() {
			if entry, ok := decodeObject[any](sub.Value); ok {
				section.Set(sub.Key, entry)
			}
		}
		doc.sections.Set(pair.Key, section)
	}
	return doc, nil
}

// ErrNotObject is returned by Parse when the document is not a JSON object.
var ErrNotObject = errors.New("document is not a JSON object")

func decodeObject[V any](raw json.RawMessage) (*orderedmap.OrderedMap[string, V], bool) {
	if !isObject(raw) {
		return nil, false
	}
	m := orderedmap.New[string, V]()
	if err := m.UnmarshalJSON(raw); err != nil {
		return nil, false
	}
	return m, true
}

func isObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading update notes: %w", err)
	}
	return Parse(data)
}

// ErrNoSection is returned by Section lookups for unknown names.
var ErrNoSection = errors.New("section not found")

// Section returns the named section.
func (d *Document) Section(name string) (*Section, error) {
	if d == nil || d.sections == nil {
		return nil, ErrNoSection
	}
	s, ok := d.sections.Get(name)
	if !ok || s == nil {
		return nil, ErrNoSection
	}
	return s, nil
}

// Len is the number of sections, not counting top-level keys whose value is
// not an object.
func (d *Document) Len() int {
	if d == nil || d.sections == nil {
		return 0
	}
	return d.sections.Len()
}

// Search returns the first note whose key or value contains keyword,
// ignoring case, formatted for display. Sections are visited in Sections
// order, notes in document order.
func Search(doc *Document, keyword string) string {
	if m, ok := Find(doc, keyword); ok {
		return m.String()
	}
	return NotFound
}

// Match is one note located by Find.
type Match struct {
	Section     string `json:"section"`
	SubCategory string `json:"sub_category"`
	Key         string `json:"key"`
	Value       string `json:"value"`
}

func (m Match) String() string {
	return fmt.Sprintf("Section: %s\nSub-Category: %s\n%s: %s", m.Section, m.SubCategory, m.Key, m.Value)
}

// Find is Search returning the structured match.
func Find(doc *Document, keyword string) (Match, bool) {
	needle := strings.ToLower(keyword)

	for _, name := range Sections {
		section, err := doc.Section(name)
		if err != nil {
			continue
		}

		for sub := section.Oldest(); sub != nil; sub = sub.Next() {
			if sub.Value == nil {
				continue
			}
			for note := sub.Value.Oldest(); note != nil; note = note.Next() {
				value, ok := note.Value.(string)
				if !ok {
					continue
				}
				if strings.Contains(strings.ToLower(note.Key), needle) ||
					strings.Contains(strings.ToLower(value), needle) {
					return Match{
						Section:     name,
						SubCategory: sub.Key,
						Key:         note.Key,
						Value:       value,
					}, true
				}
			}
		}
	}

	return Match{}, false
}

// Summary renders every section as a markdown list of sub-categories with
// their description and documentation. When featured names a Highlights
// entry it is listed first and skipped in its section.
func Summary(doc *Document, featured string) string {
	var lines []string

	if featured != "" {
		if highlights, err := doc.Section("Highlights"); err == nil {
			if entry, ok := highlights.Get(featured); ok && entry != nil && entry.Len() > 0 {
				lines = append(lines, fmt.Sprintf("- **%s**: %s", featured, noteOr(entry, "Description", noDescription)))
			}
		}
	}

	if doc.Len() == 0 {
		return strings.Join(lines, "\n")
	}

	for section := doc.sections.Oldest(); section != nil; section = section.Next() {
		lines = append(lines, fmt.Sprintf("**%s**:", section.Key))
		if section.Value == nil {
			continue
		}
		for sub := section.Value.Oldest(); sub != nil; sub = sub.Next() {
			if featured != "" && sub.Key == featured {
				continue
			}
			lines = append(lines,
				fmt.Sprintf("- **%s**: %s", sub.Key, noteOr(sub.Value, "Description", noDescription)),
				fmt.Sprintf("  - **Documentation**: %s", noteOr(sub.Value, "Documentation", noDocumentation)),
			)
		}
	}

	return strings.Join(lines, "\n")
}

func noteOr(entry *Entry, key, fallback string) string {
	if entry == nil {
		return fallback
	}
	v, ok := entry.Get(key)
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}
