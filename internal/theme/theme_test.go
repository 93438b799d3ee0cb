package theme

import (
	"image/color"
	"testing"
)

func TestResolve(t *testing.T) {
	custom := &Theme{Name: "mine", Background: color.RGBA{1, 2, 3, 255}}
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "default", false},
		{"dark", "dark", false},
		{"DARK", "dark", false},
		{"mine", "mine", false},
		{"missing", "default", true},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.name, map[string]*Theme{"mine": custom})
		if (err != nil) != tt.wantErr {
			t.Fatalf("Resolve(%q) err = %v", tt.name, err)
		}
		if got.Name != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.name, got.Name, tt.want)
		}
	}
}

func TestBuiltinReturnsCopies(t *testing.T) {
	a, _ := Builtin("dark")
	a.Background = color.RGBA{}
	b, _ := Builtin("dark")
	if b.Background == a.Background {
		t.Fatalf("Builtin shares state between calls")
	}
}
