// Package provider maintains the registry of known tile-provider names.
//
// The registry is an explicitly constructed object, not ambient package
// state: callers build one (usually from the embedded catalog), hand it to
// the map builder, and can refresh it independently without touching
// builder logic. The catalog ships as TOML and mirrors the tile-provider
// JavaScript plugin's provider list; a provider name is either a bare
// catalog entry ("OpenTopoMap") or an entry plus variant
// ("CartoDB.Positron").
package provider

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/mapwidget"
)

//go:embed providers.toml
var embeddedCatalog []byte

// catalog is the TOML document shape.
type catalog struct {
	Version   string         `toml:"version"`
	Plugin    pluginAsset    `toml:"plugin"`
	Providers []catalogEntry `toml:"providers"`
}

type pluginAsset struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Scripts     []string `toml:"scripts"`
	Stylesheets []string `toml:"stylesheets"`
}

type catalogEntry struct {
	Name     string   `toml:"name"`
	Variants []string `toml:"variants"`
}

// Registry validates provider names and supplies the plugin asset
// dependency. It implements mapwidget.ProviderCatalog.
type Registry struct {
	version  string
	plugin   mapwidget.Dependency
	variants map[string]map[string]bool // provider -> variant set (nil-safe)
}

// Default builds a registry from the embedded catalog. The embedded data is
// validated at build time, so failure here is a programming error.
func Default() *Registry {
	r, err := Load(embeddedCatalog)
	if err != nil {
		panic(err)
	}
	return r
}

// Load parses a TOML catalog into a registry.
func Load(data []byte) (*Registry, error) {
	var c catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parsing provider catalog")
	}
	if len(c.Providers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "provider catalog lists no providers")
	}
	if c.Plugin.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "provider catalog has no plugin asset")
	}

	r := &Registry{
		version: c.Version,
		plugin: mapwidget.Dependency{
			Name:        c.Plugin.Name,
			Version:     c.Plugin.Version,
			Scripts:     c.Plugin.Scripts,
			Stylesheets: c.Plugin.Stylesheets,
		},
		variants: make(map[string]map[string]bool, len(c.Providers)),
	}
	for _, p := range c.Providers {
		if p.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "provider entry without a name")
		}
		set := make(map[string]bool, len(p.Variants))
		for _, v := range p.Variants {
			set[v] = true
		}
		r.variants[p.Name] = set
	}
	return r, nil
}

// Version returns the catalog version the registry was built from.
func (r *Registry) Version() string { return r.version }

// Plugin returns the tile-provider plugin's asset dependency.
func (r *Registry) Plugin() mapwidget.Dependency { return r.plugin }

// Resolve validates a provider name and returns its descriptor. Unknown
// names fail with a coded error naming the offending string.
func (r *Registry) Resolve(name string) (mapwidget.TileProvider, error) {
	if name == "" {
		return mapwidget.TileProvider{}, errors.New(errors.ErrCodeUnknownProvider,
			"provider name cannot be empty")
	}

	base, variant := name, ""
	if i := strings.IndexByte(name, '.'); i >= 0 {
		base, variant = name[:i], name[i+1:]
	}

	set, ok := r.variants[base]
	if !ok {
		return mapwidget.TileProvider{}, errors.New(errors.ErrCodeUnknownProvider,
			"unknown tile provider: %q", name)
	}
	if variant != "" && !set[variant] {
		return mapwidget.TileProvider{}, errors.New(errors.ErrCodeUnknownProvider,
			"unknown variant %q of tile provider %q", variant, base)
	}

	return mapwidget.TileProvider{Name: name, Plugin: r.plugin}, nil
}

// Names returns every valid provider name, bare entries and variants,
// sorted. Useful for CLI listings and completion.
func (r *Registry) Names() []string {
	var names []string
	for base, set := range r.variants {
		names = append(names, base)
		for v := range set {
			names = append(names, base+"."+v)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of catalog entries (bare providers, not variants).
func (r *Registry) Len() int { return len(r.variants) }
