package settings

// ProfileCatalog is the ordered, GUID-indexed collection of
// user-visible profiles: an ordered list plus a GUID index.
// Iteration order is insertion order, which is the user-visible display
// order, so the catalog itself never reorders entries.
type ProfileCatalog struct {
	list     []*Profile
	byGUID   map[GUID]*Profile
	warnings []Warning
}

// NewProfileCatalog returns an empty catalog.
func NewProfileCatalog() *ProfileCatalog {
	return &ProfileCatalog{
		byGUID: make(map[GUID]*Profile),
	}
}

// Append adds p to the catalog. If p's GUID already exists, the insert
// is rejected and a DuplicateProfile warning is recorded instead of
// returning an error: a duplicate is a warning-level condition,
// never fatal.
func (c *ProfileCatalog) Append(p *Profile) {
	if existing, ok := c.byGUID[p.GUID]; ok {
		c.warnings = append(c.warnings, Warning{
			Code:        WarnDuplicateProfile,
			Message:     "profile " + p.GUID.String() + " (" + existing.Name + ") already exists; later declaration for " + p.Name + " ignored",
			ProfileGUID: p.GUID,
		})
		return
	}
	c.byGUID[p.GUID] = p
	c.list = append(c.list, p)
}

// ByGUID looks up a profile by identity in O(1).
func (c *ProfileCatalog) ByGUID(id GUID) (*Profile, bool) {
	p, ok := c.byGUID[id]
	return p, ok
}

// ByName returns the first profile (in insertion order) with the given
// name, used by the Validator to resolve a name-form defaultProfile
//.
func (c *ProfileCatalog) ByName(name string) (*Profile, bool) {
	for _, p := range c.list {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// List returns the catalog's profiles in insertion/display order. The
// returned slice is owned by the catalog and must not be mutated by the
// caller.
func (c *ProfileCatalog) List() []*Profile {
	return c.list
}

// Len reports the number of profiles currently indexed, ignoring
// Deleted status. Len feeds the Validator's NoProfiles check, which
// cares about presence in the catalog, not hidden/deleted state.
func (c *ProfileCatalog) Len() int {
	return len(c.list)
}

// Warnings drains and returns the duplicate-profile warnings
// accumulated since the catalog was created or last drained.
func (c *ProfileCatalog) Warnings() []Warning {
	w := c.warnings
	c.warnings = nil
	return w
}

// VisibleCount counts profiles that are neither Hidden nor Deleted,
// used by the Validator's AllProfilesHidden check.
func (c *ProfileCatalog) VisibleCount() int {
	n := 0
	for _, p := range c.list {
		if !p.Hidden && !p.Deleted {
			n++
		}
	}
	return n
}
