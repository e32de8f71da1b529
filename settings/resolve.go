package settings

import (
	"context"
	"os"
	"time"

	"github.com/plpmyanmar/terminal/base/log"
)

// Resolution is the fully-assembled, validated result of LoadAll: the
// materialized globals, the defaults slot, every profile known to the
// installation (for serialization), the subset the UI should actually
// offer (for display), and any non-fatal diagnostics collected along
// the way.
type Resolution struct {
	Globals         *GlobalAppSettings
	ProfileDefaults *Profile
	AllProfiles     []*Profile
	ActiveProfiles  []*Profile
	Warnings        []Warning
}

// LoadAll runs the full settings resolution pipeline: parse defaults
// and user file, run generators, layer generated and
// fragment candidates onto the user catalog, attach the defaults parent
// chain, finalize inheritance, validate, and, only when warranted,
// persist. A non-nil *SettingsException means the caller must fall back
// to built-in defaults only.
func LoadAll(cfg Config) (*Resolution, error) {
	defaultsParsed, fatalErr := loadDefaults(cfg.DefaultsPath)
	if fatalErr != nil {
		return nil, fatalErr
	}

	userParsed, isNewFile, fatalErr := loadUser(cfg.UserPath)
	if fatalErr != nil {
		return nil, fatalErr
	}

	var warnings []Warning
	warnings = append(warnings, defaultsParsed.Warnings...)

	// origUserGUIDs captures the identities the user's own file declared
	// before any generator/fragment layering mutates userParsed, so the
	// re-hide-after-delete reconciliation below can tell a freshly
	// reproduced generated profile apart from one the user already had.
	origUserGUIDs := make(map[GUID]struct{}, len(userParsed.Profiles))
	for _, p := range userParsed.Profiles {
		origUserGUIDs[p.GUID] = struct{}{}
	}

	state, err := LoadStatePersistence(cfg.StatePath)
	if err != nil {
		log.Warningf("resolve: failed to load state %s, starting fresh: %s", cfg.StatePath, err)
		state, _ = LoadStatePersistence("")
	}

	runner := NewGeneratorRunner(cfg.Generators...)
	generated := runner.Run(userParsed.Globals)

	layerer := NewLayerer()
	layerer.Layer(userParsed, generated)

	fragments, err := NewFragmentLoader(cfg.FragmentRoots...).Load(context.Background(), userParsed.Globals, userParsed.Globals.IsSourceDisabled)
	if err != nil {
		log.Warningf("resolve: fragment loading failed, continuing without fragments: %s", err)
	} else {
		identity := NewIdentityAssigner()
		for _, f := range fragments {
			identity.Assign(f)
		}
		layerer.Layer(userParsed, fragments)
	}

	layerer.AttachDefaults(userParsed, defaultsParsed)

	reconcileGenerated(state, userParsed, generated, origUserGUIDs)
	newGeneratedDiscovered := state.Dirty()
	if err := state.Save(); err != nil {
		log.Warningf("resolve: failed to persist state %s: %s", cfg.StatePath, err)
	}

	// Collected only now so duplicate rejections from layering are
	// included alongside the parse-time ones.
	warnings = append(warnings, userParsed.Warnings...)

	catalog := NewProfileCatalog()
	for _, p := range userParsed.Profiles {
		catalog.Append(p)
	}
	warnings = append(warnings, catalog.Warnings()...)

	finalizer := NewInheritanceFinalizer()
	warnings = append(warnings, finalizer.FinalizeAll(catalog.List())...)
	warnings = append(warnings, finalizer.FinalizeProfile(userParsed.ProfileDefaults)...)

	validator := NewValidator()
	valWarnings, valFatal := validator.Validate(catalog, userParsed.Globals)
	if valFatal != nil {
		return nil, valFatal
	}
	warnings = append(warnings, valWarnings...)

	if isNewFile || newGeneratedDiscovered {
		if err := NewPersister(cfg.UserPath).Save(userParsed.Globals, userParsed.ProfileDefaults, catalog.List(), time.Now()); err != nil {
			warnings = append(warnings, Warning{Code: WarnFailedToWriteToSettings, Message: err.Error()})
		}
	}

	var active []*Profile
	for _, p := range catalog.List() {
		if !p.Hidden && !p.Deleted {
			active = append(active, p)
		}
	}

	return &Resolution{
		Globals:         userParsed.Globals,
		ProfileDefaults: userParsed.ProfileDefaults,
		AllProfiles:     catalog.List(),
		ActiveProfiles:  active,
		Warnings:        warnings,
	}, nil
}

// loadDefaults reads and parses the built-in defaults.json, running the
// IdentityAssigner over every profile it declares. Any failure here is
// fatal: the built-in file is a product asset, so its corruption
// indicates a broken installation.
func loadDefaults(path string) (*ParsedSettings, *SettingsException) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fatal(ErrDefaultsCorrupt, "reading built-in defaults", err)
	}
	parsed, err := ParseSettings(data, OriginInBox)
	if err != nil {
		return nil, fatal(ErrDefaultsCorrupt, "parsing built-in defaults", err)
	}
	assignIdentities(parsed)
	return parsed, nil
}

// loadUser reads and parses the per-user settings.json. A missing file
// is not an error: it means a first run, and isNewFile is reported true
// so the caller knows to persist the freshly-assembled state at the end
// of resolution. Any other read or parse failure is fatal.
func loadUser(path string) (parsed *ParsedSettings, isNewFile bool, fatalErr *SettingsException) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ps := NewParsedSettings()
			return ps, true, nil
		}
		return nil, false, fatal(ErrFilesystemFailure, "reading user settings", err)
	}

	ps, err := ParseSettings(data, OriginUser)
	if err != nil {
		return nil, false, fatal(ErrDeserializationFailed, "parsing user settings", err)
	}
	assignIdentities(ps)
	return ps, false, nil
}

// assignIdentities runs the IdentityAssigner over every profile a
// freshly-parsed document declares. Generator output is assigned
// inside GeneratorRunner.Run and fragment output inside LoadAll, since
// both need their namespace set first; a defaults/user document's
// profiles already carry their final Source (empty, for user profiles),
// so this can run immediately after parsing.
func assignIdentities(ps *ParsedSettings) {
	identity := NewIdentityAssigner()
	for _, p := range ps.Profiles {
		identity.Assign(p)
	}
}

// reconcileGenerated applies the re-hide-after-delete rule for
// every generated candidate once layering has settled: a candidate that
// was previously seen and is absent from the user's own on-disk
// declarations gets its catalog-visible counterpart hidden and deleted;
// a never-seen candidate is recorded as newly emitted.
func reconcileGenerated(state *StatePersistence, user *ParsedSettings, generated []*Profile, origUserGUIDs map[GUID]struct{}) {
	for _, g := range generated {
		visible, ok := user.ByGUID(g.GUID)
		if !ok {
			continue
		}
		_, presentInUserFile := origUserGUIDs[g.GUID]
		state.ReconcileGenerated(g, visible, presentInUserFile)
	}
}
