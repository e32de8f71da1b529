package settings

import (
	"net/url"
	"unicode/utf16"
)

// Validator runs a fixed-order post-finalization consistency pass: the
// first two checks are fatal (no profiles / all profiles hidden),
// everything after accumulates as a warning so a single malformed field
// never aborts an otherwise-usable load. Per-profile checks read the
// finalized effective values, not just each profile's own declarations.
type Validator struct{}

// NewValidator returns a ready-to-use validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate runs every check against catalog/globals in order, mutating
// profiles/globals in place where a check calls for clearing an
// offending field, and returns the accumulated warnings. A non-nil
// *SettingsException means the caller must abort and fall back to
// built-in defaults.
func (v *Validator) Validate(catalog *ProfileCatalog, globals *GlobalAppSettings) ([]Warning, *SettingsException) {
	if catalog.Len() == 0 {
		return nil, fatal(ErrNoProfiles, "no profiles present after resolution", nil)
	}
	if catalog.VisibleCount() == 0 {
		return nil, fatal(ErrAllProfilesHidden, "every profile is hidden", nil)
	}

	var warnings []Warning
	warnings = append(warnings, v.checkDefaultProfile(catalog, globals)...)
	warnings = append(warnings, v.checkColorSchemes(catalog, globals)...)
	warnings = append(warnings, v.checkBackgroundAndIcon(catalog)...)
	warnings = append(warnings, v.checkKeybindings(globals)...)
	warnings = append(warnings, v.checkColorSchemeActions(globals)...)

	return warnings, nil
}

// checkDefaultProfile resolves globals.DefaultProfile against the
// catalog, first by GUID then by name, falling back to the first
// profile in the catalog and recording
// MissingDefaultProfile if the field is unset or unresolvable.
func (v *Validator) checkDefaultProfile(catalog *ProfileCatalog, globals *GlobalAppSettings) []Warning {
	if globals.DefaultProfile != "" {
		if g, err := ParseGUID(globals.DefaultProfile); err == nil {
			if _, ok := catalog.ByGUID(g); ok {
				return nil
			}
		}
		if p, ok := catalog.ByName(globals.DefaultProfile); ok {
			globals.DefaultProfile = p.GUID.String()
			return nil
		}
	}

	first := catalog.List()[0]
	globals.DefaultProfile = first.GUID.String()
	return []Warning{{
		Code:    WarnMissingDefaultProfile,
		Message: "defaultProfile unset or unresolvable; falling back to " + first.Name,
	}}
}

// checkColorSchemes clears any profile whose resolved ColorScheme
// references a name absent from globals.ColorSchemes. The check reads
// the finalized effective value, so a bad scheme inherited from
// profileDefaults or a generator/fragment parent is caught just like a
// self-declared one.
func (v *Validator) checkColorSchemes(catalog *ProfileCatalog, globals *GlobalAppSettings) []Warning {
	var warnings []Warning
	for _, p := range catalog.List() {
		nameStr, ok := effectiveString(p, "colorScheme")
		if !ok || nameStr == "" {
			continue
		}
		if _, found := globals.resolveColorScheme(nameStr); found {
			continue
		}
		clearField(p, "colorScheme")
		warnings = append(warnings, Warning{
			Code:        WarnUnknownColorScheme,
			Message:     "unknown color scheme " + nameStr + "; cleared",
			ProfileGUID: p.GUID,
		})
	}
	return warnings
}

// checkBackgroundAndIcon clears a profile's resolved backgroundImage/
// icon value when it is neither a parseable URI nor a short symbol of
// at most 2 code units. Like checkColorSchemes, it reads the finalized
// effective value so inherited paths are validated too.
func (v *Validator) checkBackgroundAndIcon(catalog *ProfileCatalog) []Warning {
	var warnings []Warning
	for _, p := range catalog.List() {
		warnings = append(warnings, v.checkPathField(p, "backgroundImage", WarnInvalidBackgroundImage)...)
		warnings = append(warnings, v.checkPathField(p, "icon", WarnInvalidIcon)...)
	}
	return warnings
}

func (v *Validator) checkPathField(p *Profile, key string, code WarningCode) []Warning {
	s, ok := effectiveString(p, key)
	if !ok || s == "" || isValidPathOrSymbol(s) {
		return nil
	}
	clearField(p, key)
	return []Warning{{
		Code:        code,
		Message:     key + " value " + s + " is neither a parseable URI nor a short symbol; cleared",
		ProfileGUID: p.GUID,
	}}
}

// effectiveString reads a profile's finalized value for key as a
// string. The Validator runs after the InheritanceFinalizer, so
// Effective is the state consumers will actually observe.
func effectiveString(p *Profile, key string) (string, bool) {
	raw, ok := p.Effective[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// clearField removes key from p's resolved values and, when p itself
// declared the key, replaces the declaration with an explicit clear
// marker so the fix also survives serialization. A purely inherited
// value gets no marker written into p: the offending declaration lives
// in the parent, and the next resolution re-applies the same clearing.
func clearField(p *Profile, key string) {
	delete(p.Effective, key)
	if val, ok := p.Settings[key]; ok && val.IsSet() {
		p.Settings[key] = Cleared[any]()
	}
}

// isValidPathOrSymbol accepts a parseable absolute URI, or a string of
// at most 2 UTF-16 code units (so a single emoji glyph, one surrogate
// pair, still counts as a short symbol).
func isValidPathOrSymbol(s string) bool {
	if len(utf16.Encode([]rune(s))) <= 2 {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

// checkKeybindings surfaces any per-binding ParseWarning recorded by
// the parser as a single AtLeastOneKeybindingWarning.
func (v *Validator) checkKeybindings(globals *GlobalAppSettings) []Warning {
	for _, action := range globals.Actions {
		if action.ParseWarning != "" {
			return []Warning{{
				Code:    WarnAtLeastOneKeybindingIssue,
				Message: "at least one key binding failed to parse: " + action.ParseWarning,
			}}
		}
	}
	return nil
}

// checkColorSchemeActions verifies every non-iterable setColorScheme
// action references an existing scheme; iterable
// next/previous-scheme commands have no concrete name to check.
func (v *Validator) checkColorSchemeActions(globals *GlobalAppSettings) []Warning {
	var warnings []Warning
	for _, action := range globals.Actions {
		if action.Command != "setColorScheme" || action.Iterable {
			continue
		}
		if _, ok := globals.resolveColorScheme(action.ColorScheme); ok {
			continue
		}
		warnings = append(warnings, Warning{
			Code:    WarnInvalidColorSchemeInCmd,
			Message: "setColorScheme action references unknown scheme " + action.ColorScheme,
		})
	}
	return warnings
}
