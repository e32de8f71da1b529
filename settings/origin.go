package settings

// OriginTag records where a profile definition came from, in increasing
// precedence order. Inheritance lookups and the Persister (which skips
// non-user-visible origins when writing) both key off this tag.
type OriginTag uint8

const (
	// OriginInBox marks the built-in defaults shipped alongside the
	// executable (defaults.json).
	OriginInBox OriginTag = iota
	// OriginGenerated marks a profile produced by a Generator.
	OriginGenerated
	// OriginFragment marks a profile contributed by a third-party
	// fragment extension.
	OriginFragment
	// OriginProfilesDefaults marks the single, anonymous
	// "profiles.defaults" slot.
	OriginProfilesDefaults
	// OriginUser marks a profile declared directly in the user's
	// settings.json.
	OriginUser
)

// String renders the origin for logging/diagnostics.
func (o OriginTag) String() string {
	switch o {
	case OriginInBox:
		return "in-box"
	case OriginGenerated:
		return "generated"
	case OriginFragment:
		return "fragment"
	case OriginProfilesDefaults:
		return "profiles-defaults"
	case OriginUser:
		return "user"
	default:
		return "unknown"
	}
}

// IsUserVisible reports whether profiles of this origin should ever be
// serialized back into the user's settings.json by the Persister.
// In-box defaults and raw generated/fragment candidates are never
// persisted directly; only their reproductions (which carry
// OriginGenerated/OriginFragment themselves, but live in the user
// catalog) are.
func (o OriginTag) IsUserVisible() bool {
	switch o {
	case OriginGenerated, OriginFragment, OriginUser, OriginProfilesDefaults:
		return true
	default:
		return false
	}
}
