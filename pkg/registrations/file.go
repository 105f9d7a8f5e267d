package registrations

import (
	"bytes"
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Entry is one extension in the registrations file.
type Entry struct {
	ID         string
	Repository string
	Version    string

	// Extra holds keys this package does not interpret.
	Extra map[string]json.RawMessage
}

var entryKeys = []string{"id", "repository", "version"}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, dst := range map[string]*string{"id": &e.ID, "repository": &e.Repository, "version": &e.Version} {
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return err
			}
		}
	}
	for _, key := range entryKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Known keys come first in a fixed
// order; extra keys follow sorted.
func (e Entry) MarshalJSON() ([]byte, error) {
	var w objectWriter
	if err := w.field("id", e.ID); err != nil {
		return nil, err
	}
	if err := w.field("repository", e.Repository); err != nil {
		return nil, err
	}
	if e.Version != "" {
		if err := w.field("version", e.Version); err != nil {
			return nil, err
		}
	}
	if err := w.extra(e.Extra, entryKeys); err != nil {
		return nil, err
	}
	return w.close(), nil
}

// objectWriter builds a JSON object whose keys keep the order they were
// written in.
type objectWriter struct {
	buf bytes.Buffer
}

func (w *objectWriter) field(k string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if w.buf.Len() == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	key, _ := json.Marshal(k)
	w.buf.Write(key)
	w.buf.WriteByte(':')
	w.buf.Write(data)
	return nil
}

// extra writes the keys of m in sorted order, skipping those in known.
func (w *objectWriter) extra(m map[string]json.RawMessage, known []string) error {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if slices.Contains(known, k) {
			continue
		}
		if err := w.field(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

func (w *objectWriter) close() []byte {
	if w.buf.Len() == 0 {
		w.buf.WriteByte('{')
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}

// File is the whole registrations document.
type File struct {
	Extensions []Entry

	// Extra holds top-level keys other than "extensions".
	Extra map[string]json.RawMessage
}

var fileKeys = []string{"extensions"}

// UnmarshalJSON implements json.Unmarshaler.
func (f *File) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["extensions"]; ok {
		if err := json.Unmarshal(v, &f.Extensions); err != nil {
			return err
		}
	}
	for _, key := range fileKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		f.Extra = raw
	}
	return nil
}

// MarshalJSON implements json.Marshaler. "extensions" comes first; extra
// keys follow sorted.
func (f File) MarshalJSON() ([]byte, error) {
	var w objectWriter
	exts := f.Extensions
	if exts == nil {
		exts = []Entry{}
	}
	if err := w.field("extensions", exts); err != nil {
		return nil, err
	}
	if err := w.extra(f.Extra, fileKeys); err != nil {
		return nil, err
	}
	return w.close(), nil
}

// Load reads the file at path. A missing file yields an empty document.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{Extensions: []Entry{}}, nil
		}
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Extensions == nil {
		f.Extensions = []Entry{}
	}
	return &f, nil
}

// Save writes f to path with two-space indentation, replacing the file
// atomically.
func Save(path string, f *File) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Has reports whether an entry with id exists, ignoring case.
func (f *File) Has(id string) bool {
	for _, e := range f.Extensions {
		if strings.EqualFold(e.ID, id) {
			return true
		}
	}
	return false
}

// Add appends e unless an entry with the same id exists.
func (f *File) Add(e Entry) bool {
	if f.Has(e.ID) {
		return false
	}
	f.Extensions = append(f.Extensions, e)
	return true
}
