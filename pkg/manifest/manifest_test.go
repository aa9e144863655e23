package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/featurehack/pkg/errors"
	"github.com/matzehuels/featurehack/pkg/metadata"
)

func TestParsePublish(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		want    bool
		wantErr bool
	}{
		{"absent", "[package]\nname = \"a\"\n", true, false},
		{"false", "[package]\nname = \"a\"\npublish = false\n", false, false},
		{"true", "[package]\nname = \"a\"\npublish = true\n", true, false},
		{"empty registries", "[package]\nname = \"a\"\npublish = []\n", false, false},
		{"registries", "[package]\nname = \"a\"\npublish = [\"internal\"]\n", true, false},
		{"inherited", "[package]\nname = \"a\"\npublish.workspace = true\n", true, false},
		{"virtual", "[workspace]\nmembers = [\"a\"]\n", true, false},
		{"wrong type", "[package]\nname = \"a\"\npublish = \"no\"\n", false, true},
		{"invalid toml", "[package\n", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse("Cargo.toml", []byte(tt.toml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidManifest) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidManifest)
				}
				return
			}
			if m.Publish != tt.want {
				t.Errorf("Publish = %v, want %v", m.Publish, tt.want)
			}
		})
	}
}

func TestParseDevDeps(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want bool
	}{
		{"none", "[package]\nname = \"a\"\n[dependencies]\nserde = \"1\"\n", false},
		{"dev-dependencies", "[package]\nname = \"a\"\n[dev-dependencies]\nproptest = \"1\"\n", true},
		{"dev_dependencies", "[package]\nname = \"a\"\n[dev_dependencies]\nproptest = \"1\"\n", true},
		{"target", "[package]\nname = \"a\"\n[target.'cfg(unix)'.dev-dependencies]\nnix = \"0.27\"\n", true},
		{"target normal only", "[package]\nname = \"a\"\n[target.'cfg(unix)'.dependencies]\nnix = \"0.27\"\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse("Cargo.toml", []byte(tt.toml))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if m.HasDevDeps != tt.want {
				t.Errorf("HasDevDeps = %v, want %v", m.HasDevDeps, tt.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "Cargo.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestRemoveDevDeps(t *testing.T) {
	input := `[package]
name = "a"

[dependencies]
serde = "1"

[dev-dependencies]
proptest = "1"
# keep nothing from here

[dev-dependencies.criterion]
version = "0.5"

[target.'cfg(all(unix, target_arch = "x86_64"))'.dev-dependencies]
nix = "0.27"

[target."cfg(windows)".dependencies]
winapi = "0.3"

[[bench]]
name = "b"
`
	want := `[package]
name = "a"

[dependencies]
serde = "1"

[target."cfg(windows)".dependencies]
winapi = "0.3"

[[bench]]
name = "b"
`
	if got := RemoveDevDeps(input); got != want {
		t.Errorf("RemoveDevDeps() =\n%s\nwant\n%s", got, want)
	}
}

func TestRemoveDevDepsNoop(t *testing.T) {
	input := "[package]\nname = \"a\"\n[dependencies]\nx = { version = \"1\", features = [\"dev-dependencies\"] }\n"
	if got := RemoveDevDeps(input); got != input {
		t.Errorf("RemoveDevDeps() changed a manifest without dev-dependencies:\n%s", got)
	}
}

func TestRemoveAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	original := "[package]\nname = \"a\"\n\n[dev-dependencies]\nproptest = \"1\"\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.RemoveDevDeps(); err != nil {
		t.Fatalf("RemoveDevDeps: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "proptest") {
		t.Errorf("dev-dependency still present:\n%s", data)
	}

	if err := m.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != original {
		t.Errorf("Restore() wrote\n%s\nwant\n%s", data, original)
	}
}

func TestLoadSet(t *testing.T) {
	md := &metadata.Metadata{
		WorkspaceMembers: []metadata.PackageID{"a", "b"},
		Packages: map[metadata.PackageID]*metadata.Package{
			"a": {ID: "a", ManifestPath: "/ws/a/Cargo.toml"},
			"b": {ID: "b", ManifestPath: "/ws/b/Cargo.toml"},
			"c": {ID: "c", ManifestPath: "/registry/c/Cargo.toml"},
		},
	}

	var loaded []string
	set, err := LoadSet(md, func(path string) (*Manifest, error) {
		loaded = append(loaded, path)
		return &Manifest{Path: path, Publish: true}, nil
	})
	if err != nil {
		t.Fatalf("LoadSet: %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
	if len(loaded) != 2 {
		t.Errorf("loaded %v, want exactly the two members", loaded)
	}
	if got := set.Get("b").Path; got != "/ws/b/Cargo.toml" {
		t.Errorf("Get(b).Path = %q", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Get of a non-member should panic")
		}
	}()
	set.Get("c")
}

func TestLoadSetError(t *testing.T) {
	md := &metadata.Metadata{
		WorkspaceMembers: []metadata.PackageID{"a"},
		Packages:         map[metadata.PackageID]*metadata.Package{"a": {ID: "a", ManifestPath: "/missing/Cargo.toml"}},
	}
	set, err := LoadSet(md, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if set != nil {
		t.Error("no partial Set may be returned")
	}
}

func TestRemoveDevDepsKeepsCommentsOfNextTable(t *testing.T) {
	input := "[package]\nname = \"a\"\n\n[dev-dependencies]\nfoo = \"1\"\n\n# Optional integrations.\n[features]\nx = []\n"
	want := "[package]\nname = \"a\"\n\n# Optional integrations.\n[features]\nx = []\n"
	if got := RemoveDevDeps(input); got != want {
		t.Errorf("RemoveDevDeps() =\n%s\nwant\n%s", got, want)
	}
}

func TestRemoveDevDepsDottedKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "root table",
			input: "dev-dependencies.foo = \"1\"\n\n[package]\nname = \"a\"\n",
			want:  "\n[package]\nname = \"a\"\n",
		},
		{
			name:  "target table",
			input: "[package]\nname = \"a\"\n\n[target.'cfg(unix)']\ndependencies.nix = \"0.27\"\ndev-dependencies.foo = \"1\"\n",
			want:  "[package]\nname = \"a\"\n\n[target.'cfg(unix)']\ndependencies.nix = \"0.27\"\n",
		},
		{
			name:  "multi-line value",
			input: "dev_dependencies.foo.features = [\n  \"x\",\n]\n[package]\nname = \"a\"\n",
			want:  "[package]\nname = \"a\"\n",
		},
		{
			name:  "package key is kept",
			input: "[package]\nname = \"a\"\ndev-dependencies.note = \"x\"\n",
			want:  "[package]\nname = \"a\"\ndev-dependencies.note = \"x\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemoveDevDeps(tt.input); got != tt.want {
				t.Errorf("RemoveDevDeps() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRemoveDevDepsDottedKeysOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	original := "dev-dependencies.foo = \"1\"\n\n[package]\nname = \"a\"\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m.HasDevDeps {
		t.Fatal("HasDevDeps = false, want true")
	}
	if err := m.RemoveDevDeps(); err != nil {
		t.Fatalf("RemoveDevDeps: %v", err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.HasDevDeps {
		t.Errorf("dev-dependencies still present:\n%s", reloaded.Raw)
	}
}

func TestRemoveDevDepsRefusesIncompleteRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	original := "target = { \"cfg(unix)\" = { dev-dependencies = { foo = \"1\" } } }\n\n[package]\nname = \"a\"\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m.HasDevDeps {
		t.Fatal("HasDevDeps = false, want true")
	}
	if err := m.RemoveDevDeps(); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("RemoveDevDeps() error = %v, want INVALID_MANIFEST", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Errorf("manifest was modified:\n%s", data)
	}
}
