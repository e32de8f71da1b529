package settings

// IdentityAssigner fills in a GUID for any profile that declares a name
// but no explicit guid. It never overwrites a GUID already
// present in the source JSON.
type IdentityAssigner struct{}

// NewIdentityAssigner returns a ready-to-use assigner. It carries no
// state; the type exists so the resolution pipeline in resolve.go reads
// as a sequence of named stages, mirroring the Parser/Layerer/Validator
// shape.
func NewIdentityAssigner() *IdentityAssigner {
	return &IdentityAssigner{}
}

// Assign mutates p in place, synthesizing a GUID via namespaced UUID-v5
// when p.GUID is unset. The namespace is derived from p.Source when set
// (so two different sources never collide on the same name), falling
// back to UserNamespace for hand-authored user profiles.
//
// The same (source, name) pair always yields the same GUID: this is the
// cornerstone of the re-hide-after-delete behavior: a generator
// that re-emits a profile the user previously deleted must produce the
// identical identity so the catalog recognizes and re-hides it.
func (a *IdentityAssigner) Assign(p *Profile) {
	if !p.GUID.IsZero() {
		return
	}
	p.GUID = NewV5GUID(a.namespaceFor(p.Source), p.Name)
}

// namespaceFor returns the UUID-v5 namespace a profile's GUID should be
// synthesized under, deriving a dedicated per-source namespace so
// identically-named profiles from two different sources never collide.
func (a *IdentityAssigner) namespaceFor(source string) GUID {
	if source == "" {
		return UserNamespace
	}
	return NewV5GUID(UserNamespace, source)
}
