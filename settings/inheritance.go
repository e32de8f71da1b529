package settings

// InheritanceFinalizer materializes each profile's Effective settings
// by walking its parent chain once, depth-first and left-to-right,
// under a first-declaration-wins policy: the first node along the walk
// to mention a key, whether with a concrete value or an explicit
// Cleared marker, decides that key for the whole profile.
type InheritanceFinalizer struct{}

// NewInheritanceFinalizer returns a ready-to-use finalizer.
func NewInheritanceFinalizer() *InheritanceFinalizer {
	return &InheritanceFinalizer{}
}

// FinalizeAll materializes Effective for every profile in profiles,
// returning the accumulated cycle warnings, if any.
func (f *InheritanceFinalizer) FinalizeAll(profiles []*Profile) []Warning {
	var warnings []Warning
	for _, p := range profiles {
		warnings = append(warnings, f.FinalizeProfile(p)...)
	}
	return warnings
}

// FinalizeProfile materializes p.Effective in place and returns a
// CycleDetected warning if p's parent closure loops back on itself.
func (f *InheritanceFinalizer) FinalizeProfile(p *Profile) []Warning {
	effective := make(map[string]any)
	decided := make(map[string]bool)
	onPath := make(map[*Profile]bool)
	var warnings []Warning

	var walk func(cur *Profile)
	walk = func(cur *Profile) {
		if onPath[cur] {
			warnings = append(warnings, Warning{
				Code:        WarnCycleDetected,
				Message:     "parent chain cycle detected and broken",
				ProfileGUID: p.GUID,
			})
			return
		}
		onPath[cur] = true
		defer delete(onPath, cur)

		for key, v := range cur.Settings {
			if decided[key] {
				continue
			}
			if v.IsCleared() {
				decided[key] = true
				continue
			}
			if val, ok := v.Get(); ok {
				effective[key] = val
				decided[key] = true
			}
		}

		for _, parent := range cur.Parents {
			walk(parent)
		}
	}

	walk(p)
	p.Effective = effective
	return warnings
}
