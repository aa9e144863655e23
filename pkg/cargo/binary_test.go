package cargo

import "testing"

func TestBinaryPrecedence(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"neither set", nil, DefaultBinary},
		{"only CARGO", map[string]string{EnvCargo: "/opt/cargo"}, "/opt/cargo"},
		{"only override", map[string]string{EnvCargoSrc: "/src/cargo"}, "/src/cargo"},
		{"both set", map[string]string{EnvCargoSrc: "/src/cargo", EnvCargo: "/opt/cargo"}, "/src/cargo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			}
			if got := binaryFrom(lookup); got != tt.want {
				t.Errorf("binaryFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBinaryFromEnvironment(t *testing.T) {
	t.Setenv(EnvCargo, "/opt/cargo")
	t.Setenv(EnvCargoSrc, "/src/cargo")

	if got := Binary(); got != "/src/cargo" {
		t.Errorf("Binary() = %q, want %q", got, "/src/cargo")
	}
}
