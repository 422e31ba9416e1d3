// Package project reads and writes project files and imports witness texts.
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"openphil/internal/domain"
)

// ErrUnknownFormat is returned for project files with an unsupported extension
var ErrUnknownFormat = errors.New("unknown project file format")

// Format identifies a project file encoding
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatMsgpack Format = "msgpack"
)

// FormatFromPath picks the encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Encode writes the project in the given format
func Encode(w io.Writer, p *domain.Project, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(p)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(p)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Decode reads a project in the given format
func Decode(r io.Reader, format Format) (*domain.Project, error) {
	var p domain.Project
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&p)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&p)
	case FormatTOML:
		err = toml.NewDecoder(r).Decode(&p)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&p)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads a project file, choosing the codec by extension
func LoadFile(path string) (*domain.Project, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	p, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s project %s: %w", format, path, err)
	}
	return p, nil
}

// SaveFile writes a project file, choosing the codec by extension
func SaveFile(path string, p *domain.Project) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, p, format); err != nil {
		return fmt.Errorf("failed to encode %s project: %w", format, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}
