package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"go.deviceregistry.dev/registry"
)

// fileRecord is one parameter's value as it appears on disk: the type name
// is stored alongside the value so [FileBackend.Load] can validate it
// against the live parameter's type without guessing from the bytes.
type fileRecord struct {
	Path  string `yaml:"path"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"` // base64
}

type fileDocument struct {
	Records []fileRecord `yaml:"records"`
}

// FileBackend is a [Source]/[Destination] that persists every record as one
// YAML document. Saves are written to a temporary file in the same
// directory and renamed into place, so a crash mid-write never leaves a
// truncated file at Path.
type FileBackend struct {
	Path string

	pending []fileRecord
}

// NewFileBackend creates a [FileBackend] backed by the file at path. The
// file need not exist yet; [FileBackend.Load] treats a missing file as
// having no records.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

// Load reads the backing file and replays every record to cb. A missing
// file is not an error.
func (b *FileBackend) Load(_ context.Context, cb LoadFunc) error {
	raw, err := os.ReadFile(b.Path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("storage: read %s: %w", b.Path, err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("storage: parse %s: %w", b.Path, err)
	}

	var firstErr error

	for _, rec := range doc.Records {
		typ, err := registry.ParseType(rec.Type)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}

			continue
		}

		value, err := base64.StdEncoding.DecodeString(rec.Value)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("storage: decode %s: %w", rec.Path, err)
			}

			continue
		}

		if err := cb(rec.Path, typ, value); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// SaveStart clears the in-progress record buffer, so a save call sees only
// the records written since.
func (b *FileBackend) SaveStart(context.Context) error {
	b.pending = b.pending[:0]
	return nil
}

// Save buffers a record for writing on [FileBackend.SaveEnd].
func (b *FileBackend) Save(_ context.Context, path string, typ registry.Type, raw []byte) error {
	b.pending = append(b.pending, fileRecord{
		Path:  path,
		Type:  typ.String(),
		Value: base64.StdEncoding.EncodeToString(raw),
	})

	return nil
}

// SaveEnd marshals every buffered record and atomically replaces the
// backing file.
func (b *FileBackend) SaveEnd(context.Context) error {
	out, err := yaml.Marshal(fileDocument{Records: b.pending})
	if err != nil {
		return fmt.Errorf("storage: marshal %s: %w", b.Path, err)
	}

	dir := filepath.Dir(b.Path)

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write %s: %w", tmp.Name(), err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), b.Path); err != nil {
		return fmt.Errorf("storage: rename %s to %s: %w", tmp.Name(), b.Path, err)
	}

	return nil
}
