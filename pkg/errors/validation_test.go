package errors

import (
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "serde", false},
		{"valid with dash", "my-package", false},
		{"valid with underscore", "my_package", false},
		{"valid with version", "serde@1.0.0", false},
		{"valid with legacy version", "serde:1.0.0", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"leading digit", "1serde", true},
		{"path", "foo/bar", true},
		{"dot", "my.package", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFeatureName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "default", false},
		{"with dash", "std-io", false},
		{"with plus", "c++20", false},
		{"dep feature", "serde/derive", false},
		{"weak dep feature", "serde?/derive", false},
		{"leading digit", "2018", false},

		{"empty", "", true},
		{"dep prefix", "dep:serde", true},
		{"nested slash", "a/b/c", true},
		{"space", "a b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFeatureName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFeatureName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFeature) {
				t.Errorf("ValidateFeatureName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFeature)
			}
		})
	}
}

func TestValidateManifestPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "Cargo.toml", false},
		{"nested", "crates/foo/Cargo.toml", false},
		{"absolute", "/src/ws/Cargo.toml", false},
		{"windows", `C:\ws\Cargo.toml`, false},

		{"empty", "", true},
		{"directory", "crates/foo", true},
		{"lowercase", "cargo.toml", true},
		{"null byte", "Cargo.toml\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateManifestPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
