package settings

import "fmt"

// ParsedSettings is the transient result of parsing one JSON document:
// the defaults file, the user file, a generator's output, or a single
// fragment file. Multiple ParsedSettings are combined by the Layerer
// into the final user-visible catalog.
type ParsedSettings struct {
	Globals         *GlobalAppSettings
	ProfileDefaults *Profile
	Profiles        []*Profile
	profilesByGUID  map[GUID]*Profile

	// Warnings accumulates non-fatal diagnostics produced while building
	// this particular document (currently: duplicate-GUID rejections),
	// drained into the final resolution's warning list by resolve.go.
	Warnings []Warning
}

// NewParsedSettings returns an empty ParsedSettings ready to receive
// profiles via Append.
func NewParsedSettings() *ParsedSettings {
	defaults := NewProfile(OriginProfilesDefaults)
	defaults.GUID = ZeroGUID
	return &ParsedSettings{
		Globals:         NewGlobalAppSettings(),
		ProfileDefaults: defaults,
		profilesByGUID:  make(map[GUID]*Profile),
	}
}

// ByGUID looks up a profile by identity.
func (ps *ParsedSettings) ByGUID(id GUID) (*Profile, bool) {
	p, ok := ps.profilesByGUID[id]
	return p, ok
}

// Append adds p to the set, indexing it by GUID. It returns an error if
// a profile with the same GUID is already present, mirroring
// ProfileCatalog's duplicate policy but used here for plain
// parsed documents that have not yet gone through the catalog's
// warning-emitting append.
func (ps *ParsedSettings) Append(p *Profile) error {
	if !p.GUID.IsZero() {
		if existing, exists := ps.profilesByGUID[p.GUID]; exists {
			ps.Warnings = append(ps.Warnings, Warning{
				Code:        WarnDuplicateProfile,
				Message:     "profile " + p.GUID.String() + " (" + existing.Name + ") already exists; later declaration for " + p.Name + " ignored",
				ProfileGUID: p.GUID,
			})
			return fmt.Errorf("duplicate profile guid %s", p.GUID)
		}
		ps.profilesByGUID[p.GUID] = p
	}
	ps.Profiles = append(ps.Profiles, p)
	return nil
}
