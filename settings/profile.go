package settings

// Profile is a named bag of optional settings that forms the root (or
// an interior node) of an ordered parent chain. Every setting is
// resolved by walking Parents front-to-back; Profile itself only
// holds the values *it* declares, not the effective/materialized ones;
// those live in Effective, populated by the InheritanceFinalizer.
type Profile struct {
	// GUID is the stable identity, assigned by the IdentityAssigner if
	// not already present in the source JSON. Required for every
	// profile except the anonymous ProfilesDefaults slot.
	GUID GUID
	// Name is the human-readable label. Required except for
	// ProfilesDefaults.
	Name string
	// Source is the namespace of the generator or fragment publisher
	// that produced this profile. Empty for user-declared profiles.
	Source string
	// Origin records provenance; see OriginTag.
	Origin OriginTag
	// Hidden excludes the profile from the active list, but it is still
	// serialized (unless also Deleted).
	Hidden bool
	// Deleted marks a generated entry the user removed from their file.
	// Deleted is a runtime-only flag: it is never read from or written
	// to JSON.
	Deleted bool
	// Updates names the GUID of an existing profile this one should
	// overlay onto, rather than stand alone. Only meaningful for
	// fragment-origin profiles.
	Updates *GUID

	// Settings holds the values this profile itself declares (not
	// inherited). Keys are flattened dotted/slashed setting paths, e.g.
	// "appearance/cursorShape".
	Settings map[string]Value[any]

	// Parents is the ordered list of profiles this one inherits from.
	// Lookup during inheritance finalization scans front-to-back; the
	// first declaration wins.
	Parents []*Profile

	// Effective holds the materialized, inheritance-resolved values,
	// populated by the InheritanceFinalizer. Nil until finalization
	// runs.
	Effective map[string]any
}

// NewProfile returns an empty profile of the given origin.
func NewProfile(origin OriginTag) *Profile {
	return &Profile{
		Origin:   origin,
		Settings: make(map[string]Value[any]),
	}
}

// Key returns a stable string key for maps/logging: the GUID, or for the
// GUID-less ProfilesDefaults slot, the literal "profiles.defaults".
func (p *Profile) Key() string {
	if p.Origin == OriginProfilesDefaults {
		return "profiles.defaults"
	}
	return p.GUID.String()
}

// addParent appends parent to p's parent list. It is a package-private
// helper so only the Layerer and resolve.go construct parent chains. It
// does not check whether parent is already in p's parent closure.
func (p *Profile) addParent(parent *Profile) {
	p.Parents = append(p.Parents, parent)
}

// prependParent inserts parent at the front of p's parent list, used by
// the Layerer's update-overlay step so a fragment's values outrank
// existing parents but never the child's own declared values.
func (p *Profile) prependParent(parent *Profile) {
	p.Parents = append([]*Profile{parent}, p.Parents...)
}

// reproduce creates a new, initially-empty profile whose sole parent is
// p, copying p's identifying attributes.
// The candidate p is never mutated and the reproduction's Settings map
// starts empty so later user edits can populate it without aliasing p's
// own Settings bag.
func (p *Profile) reproduce() *Profile {
	repro := NewProfile(p.Origin)
	repro.GUID = p.GUID
	repro.Name = p.Name
	repro.Hidden = p.Hidden
	repro.Source = p.Source
	repro.Parents = []*Profile{p}
	return repro
}
