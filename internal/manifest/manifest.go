package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/ludusavi-restic-tasks/internal/domain/release"
)

// Manifest is the subset of extension.yaml the release tasks care about.
type Manifest struct {
	// ID is the Playnite extension identifier.
	ID string `yaml:"Id"`
	// Name is the display name of the extension.
	Name string `yaml:"Name"`
	// Author is the extension author.
	Author string `yaml:"Author"`
	// Version is the release version, e.g. "1.2.3".
	Version string `yaml:"Version"`
	// Type is the Playnite extension type ("GenericPlugin", ...).
	Type string `yaml:"Type"`
}

var (
	errMissingVersion = errors.New(`missing "Version" key`)
	errEmptyVersion   = errors.New(`"Version" is empty`)
	errVersionNotText = errors.New(`"Version" must be a scalar`)
	errVersionIsPath  = errors.New(`"Version" must not contain path separators`)
	errNotAMapping    = errors.New("document is not a key-value mapping")
)

// Read parses the manifest at path. Every failure wraps release.ErrManifest.
func Read(path string) (*Manifest, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, release.NewError(release.ErrManifest, "read", path, err)
	}

	m, err := Parse(contents)
	if err != nil {
		return nil, release.NewError(release.ErrManifest, "parse", path, err)
	}

	return m, nil
}

// Parse decodes manifest contents. A numeric Version such as 1.10 is kept
// as written instead of being reinterpreted as a float.
func Parse(contents []byte) (*Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(contents, &root); err != nil {
		return nil, err
	}

	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, errNotAMapping
	}

	doc := root.Content[0]

	versionNode := lookup(doc, "Version")
	if versionNode == nil {
		return nil, errMissingVersion
	}

	for versionNode.Kind == yaml.AliasNode && versionNode.Alias != nil {
		versionNode = versionNode.Alias
	}

	if versionNode.Kind != yaml.ScalarNode || versionNode.Tag == "!!null" {
		return nil, errVersionNotText
	}

	var m Manifest
	if err := doc.Decode(&m); err != nil {
		return nil, err
	}

	m.Version = strings.TrimSpace(versionNode.Value)
	if m.Version == "" {
		return nil, errEmptyVersion
	}

	// The version ends up in artifact file names.
	if strings.ContainsAny(m.Version, `/\`) {
		return nil, fmt.Errorf("%q: %w", m.Version, errVersionIsPath)
	}

	return &m, nil
}

// lookup returns the value node bound to key in a mapping node.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}

	return nil
}

// String renders the manifest for logs.
func (m *Manifest) String() string {
	return fmt.Sprintf("%s %s (%s)", m.Name, m.Version, m.ID)
}
