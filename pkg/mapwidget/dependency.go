package mapwidget

// Dependency is an external script/asset bundle the rendered widget needs,
// such as a tile-provider plugin. Dependencies are registered exactly once
// per distinct (name, version) pair regardless of how many operations need
// them.
type Dependency struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Scripts     []string `json:"scripts,omitempty"`
	Stylesheets []string `json:"stylesheets,omitempty"`
}

func (d Dependency) key() string {
	return d.Name + "@" + d.Version
}

// RegisterDependency records an external asset dependency. Registering the
// same (name, version) twice keeps a single entry. Returns the handle for
// chaining.
func (m *Map) RegisterDependency(dep Dependency) *Map {
	if m.err != nil {
		return m
	}
	if m.depSeen[dep.key()] {
		return m
	}
	m.depSeen[dep.key()] = true
	m.deps = append(m.deps, dep)
	return m
}

// Dependencies returns a copy of the registered asset dependencies in
// registration order.
func (m *Map) Dependencies() []Dependency {
	out := make([]Dependency, len(m.deps))
	copy(out, m.deps)
	return out
}
