package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/devicehive/setup/pkg/payload"
)

// Manifest is the optional setup.yaml describing a build. Relative paths
// are resolved against the manifest's directory.
type Manifest struct {
	Stub     string `yaml:"stub"`
	Package  string `yaml:"package"`
	Output   string `yaml:"output"`
	Mode     string `yaml:"mode"`
	Codec    string `yaml:"codec"`
	Checksum string `yaml:"checksum"`
}

// LoadManifest reads and validates a manifest file. Unknown keys are errors.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if _, err := payload.ParseMode(m.Mode); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	if _, err := payload.CodecByName(m.Codec); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	m.Stub = resolve(base, m.Stub)
	m.Package = resolve(base, m.Package)
	m.Output = resolve(base, m.Output)
	return &m, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Merge overlays non-empty fields of other onto m.
func (m *Manifest) Merge(other Manifest) {
	if other.Stub != "" {
		m.Stub = other.Stub
	}
	if other.Package != "" {
		m.Package = other.Package
	}
	if other.Output != "" {
		m.Output = other.Output
	}
	if other.Mode != "" {
		m.Mode = other.Mode
	}
	if other.Codec != "" {
		m.Codec = other.Codec
	}
	if other.Checksum != "" {
		m.Checksum = other.Checksum
	}
}

// Options converts a complete manifest into embed options.
func (m *Manifest) Options() (payload.EmbedOptions, error) {
	missing := ""
	switch {
	case m.Stub == "":
		missing = "stub"
	case m.Package == "":
		missing = "package"
	case m.Output == "":
		missing = "output"
	}
	if missing != "" {
		return payload.EmbedOptions{}, fmt.Errorf("no %s given (use --%s or the manifest)", missing, missing)
	}

	mode, err := payload.ParseMode(m.Mode)
	if err != nil {
		return payload.EmbedOptions{}, err
	}
	return payload.EmbedOptions{
		StubPath:    m.Stub,
		PackagePath: m.Package,
		OutputPath:  m.Output,
		Mode:        mode,
		Codec:       m.Codec,
		Checksum:    m.Checksum,
	}, nil
}
