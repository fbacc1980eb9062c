package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON writes the registry as a JSON object in registry order.
func (r Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		kw := r.keywords[n]
		if kw == nil {
			kw = []string{}
		}
		v, err := json.Marshal(kw)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of category name to keyword array,
// keeping the key order of the document. null yields an empty registry.
// Keyword lists are kept exactly as written, duplicates included.
func (r *Registry) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Registry{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("categories: expected object, got %v", tok)
	}

	out := Registry{keywords: map[string][]string{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("categories: unexpected key %v", tok)
		}
		var kw []string
		if err := dec.Decode(&kw); err != nil {
			return fmt.Errorf("categories[%q]: %w", name, err)
		}
		if kw == nil {
			kw = []string{}
		}
		if _, dup := out.keywords[name]; !dup {
			out.names = append(out.names, name)
		}
		out.keywords[name] = kw
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}
