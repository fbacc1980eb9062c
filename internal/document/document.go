// Package document reads and writes the archive JSON document:
//
//	{"categories": {"<name>": ["<keyword>", ...]}, "chats": [{"url", "title", "chats", "categories"}]}
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rcliao/chatsort/internal/model"
)

// ErrInvalidDocument is returned when input does not have the document shape.
var ErrInvalidDocument = errors.New("invalid document")

// Decode parses a document. "chats" must be an array; "categories" must be an
// object when present.
func Decode(r io.Reader) (model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Document{}, fmt.Errorf("read document: %w", err)
	}

	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		return model.Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if shape == nil {
		return model.Document{}, fmt.Errorf("%w: expected a JSON object", ErrInvalidDocument)
	}
	chats, ok := shape["chats"]
	if !ok || !isArray(chats) {
		return model.Document{}, fmt.Errorf("%w: \"chats\" must be an array", ErrInvalidDocument)
	}
	if cats, ok := shape["categories"]; ok && !isObject(cats) && !isNull(cats) {
		return model.Document{}, fmt.Errorf("%w: \"categories\" must be an object", ErrInvalidDocument)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	for i := range doc.Chats {
		if doc.Chats[i].Chats == nil {
			doc.Chats[i].Chats = []string{}
		}
		if doc.Chats[i].Categories == nil {
			doc.Chats[i].Categories = []string{}
		}
	}
	return doc, nil
}

// Encode writes doc as two-space indented JSON.
func Encode(w io.Writer, doc model.Document) error {
	if doc.Chats == nil {
		doc.Chats = []model.Chat{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// Load reads the document at path.
func Load(path string) (model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return model.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes doc to path.
func Save(path string, doc model.Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
