package artifact

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SupportedFormatVersion is the artifact export format this build reads.
const SupportedFormatVersion = "1"

// Manifest pins the artifact pair to a version and content checksums.
type Manifest struct {
	Version       string `yaml:"version"`
	FormatVersion string `yaml:"formatVersion"`
	Artifacts     struct {
		Model         ManifestEntry `yaml:"model"`
		Preprocessors ManifestEntry `yaml:"preprocessors"`
	} `yaml:"artifacts"`
}

type ManifestEntry struct {
	SHA256 string `yaml:"sha256"`
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.FormatVersion == "" {
		m.FormatVersion = SupportedFormatVersion
	}
	return &m, nil
}

// Marshal encodes the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}
