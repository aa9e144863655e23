// Package manifest reads the Cargo.toml facts featurehack needs directly from
// disk: whether a package may be published, on cargo too old to report it in
// metadata, and the text of the manifest so dev-dependencies can be removed
// and restored around an invocation.
package manifest

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/featurehack/pkg/errors"
)

// Manifest is a parsed Cargo.toml.
type Manifest struct {
	Path string
	// Raw is the file content as read, used to restore the manifest after
	// dev-dependencies were removed.
	Raw string
	// Name is package.name, empty for a virtual manifest.
	Name string
	// Publish is false for `publish = false` and `publish = []`.
	Publish bool
	// HasDevDeps reports whether any [dev-dependencies] table is declared,
	// including target-specific ones.
	HasDevDeps bool
}

type cargoFile struct {
	Package *struct {
		Name    string `toml:"name"`
		Publish any    `toml:"publish"`
	} `toml:"package"`
	DevDependencies  map[string]any            `toml:"dev-dependencies"`
	DevDependencies2 map[string]any            `toml:"dev_dependencies"`
	Target           map[string]map[string]any `toml:"target"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "failed to read manifest %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to read manifest %s", path)
	}
	return Parse(path, data)
}

// Parse parses manifest content. path is only recorded for later writes and
// error messages.
func Parse(path string, data []byte) (*Manifest, error) {
	var cargo cargoFile
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to parse manifest %s", path)
	}

	m := &Manifest{Path: path, Raw: string(data), Publish: true}
	if cargo.Package != nil {
		m.Name = cargo.Package.Name
		publish, err := parsePublish(cargo.Package.Publish)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to parse manifest %s", path)
		}
		m.Publish = publish
	}

	m.HasDevDeps = len(cargo.DevDependencies) > 0 || len(cargo.DevDependencies2) > 0
	for _, t := range cargo.Target {
		if t["dev-dependencies"] != nil || t["dev_dependencies"] != nil {
			m.HasDevDeps = true
		}
	}

	return m, nil
}

// parsePublish interprets package.publish, which is a bool, a list of
// registries, or `{ workspace = true }` when inherited.
func parsePublish(v any) (bool, error) {
	switch p := v.(type) {
	case nil:
		return true, nil
	case bool:
		return p, nil
	case []any:
		return len(p) > 0, nil
	case map[string]any:
		// Inherited values are resolved by cargo; only cargo >= 1.64 accepts
		// them, and those versions report publish through metadata.
		return true, nil
	default:
		return false, errors.New(errors.ErrCodeInvalidManifest, "package.publish must be a boolean or an array of registries, found %T", v)
	}
}

// RemoveDevDeps writes the manifest back without its dev-dependencies.
// It is a no-op when the manifest declares none. The file is left untouched
// when the stripped text would not parse or still declares dev-dependencies.
func (m *Manifest) RemoveDevDeps() error {
	if !m.HasDevDeps {
		return nil
	}
	content := RemoveDevDeps(m.Raw)
	stripped, err := Parse(m.Path, []byte(content))
	if err != nil {
		return err
	}
	if stripped.HasDevDeps {
		return errors.New(errors.ErrCodeInvalidManifest, "failed to remove dev-dependencies from %s", m.Path)
	}
	return m.write(content)
}

// Restore writes the original manifest content back to disk.
func (m *Manifest) Restore() error {
	if !m.HasDevDeps {
		return nil
	}
	return m.write(m.Raw)
}

func (m *Manifest) write(content string) error {
	info, err := os.Stat(m.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to write manifest %s", m.Path)
	}
	if err := os.WriteFile(m.Path, []byte(content), info.Mode().Perm()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to write manifest %s", m.Path)
	}
	return nil
}
