package provider

import (
	"strings"
	"testing"

	"github.com/tilewright/tilewright/pkg/errors"
)

func TestDefaultCatalogResolves(t *testing.T) {
	r := Default()

	tests := []string{
		"OpenStreetMap",
		"OpenStreetMap.HOT",
		"CartoDB.Positron",
		"OpenTopoMap",
		"NASAGIBS.ViirsEarthAtNight2012",
	}
	for _, name := range tests {
		p, err := r.Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q): %v", name, err)
			continue
		}
		if p.Name != name {
			t.Errorf("Resolve(%q).Name = %q", name, p.Name)
		}
		if p.Plugin.Name != "tile-providers" || len(p.Plugin.Scripts) == 0 {
			t.Errorf("Resolve(%q) carries no plugin asset: %+v", name, p.Plugin)
		}
	}
}

func TestResolveUnknownNamesTheString(t *testing.T) {
	r := Default()

	for _, name := range []string{"", "NoSuchProvider", "CartoDB.NoSuchVariant"} {
		_, err := r.Resolve(name)
		if err == nil {
			t.Errorf("Resolve(%q) should fail", name)
			continue
		}
		if errors.GetCode(err) != errors.ErrCodeUnknownProvider {
			t.Errorf("Resolve(%q) code = %s", name, errors.GetCode(err))
		}
		if name != "" && !strings.Contains(err.Error(), strings.TrimPrefix(name, "CartoDB.")) {
			t.Errorf("Resolve(%q) error should name the offending string: %v", name, err)
		}
	}
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax error", `version = `},
		{"no providers", `version = "1"` + "\n" + `[plugin]` + "\n" + `name = "p"`},
		{"no plugin", `[[providers]]` + "\n" + `name = "X"`},
		{"unnamed provider", `[plugin]` + "\n" + `name = "p"` + "\n" + `[[providers]]` + "\n" + `variants = ["a"]`},
	}
	for _, tc := range tests {
		if _, err := Load([]byte(tc.toml)); err == nil {
			t.Errorf("%s: Load should fail", tc.name)
		} else if errors.GetCode(err) != errors.ErrCodeInvalidDocument {
			t.Errorf("%s: code = %s", tc.name, errors.GetCode(err))
		}
	}
}

func TestNamesAreSortedAndComplete(t *testing.T) {
	r, err := Load([]byte(`
version = "1"

[plugin]
name = "p"
version = "1"

[[providers]]
name = "B"
variants = ["y", "x"]

[[providers]]
name = "A"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"A", "B", "B.x", "B.y"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}
