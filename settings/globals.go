package settings

// ColorScheme is a named set of terminal colors. Only the name and a
// minimal structural validity are the concern of this core; the palette
// itself is an external collaborator.
type ColorScheme struct {
	Name       string `json:"name"`
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

// Valid reports whether the scheme is structurally usable: it must at
// least have a name and a foreground/background pair. Deeper color
// validation is out of scope
// and left to the rendering layer.
func (c ColorScheme) Valid() bool {
	return c.Name != "" && c.Foreground != "" && c.Background != ""
}

// KeyBindingAction is a single key-binding entry, kept intentionally
// thin: the key-binding action model itself is out of scope, but
// the Validator still needs to check setColorScheme references.
type KeyBindingAction struct {
	Keys    string
	Command string
	// ColorScheme is set only for "setColorScheme"-style commands.
	ColorScheme string
	// Iterable marks commands that expand over a set of targets (e.g.
	// "prev/next profile") rather than naming one concrete scheme; the
	// Validator skips color-scheme existence checks for these.
	Iterable bool

	// ParseWarning holds a non-fatal issue found while parsing this
	// binding's Command, surfaced by the Validator as
	// AtLeastOneKeybindingWarning.
	ParseWarning string
}

// GlobalAppSettings is the single bag of non-profile settings,
// participating in its own parent chain (user-globals inherits from
// defaults-globals) exactly like a Profile, but with a fixed field set
// instead of an open settings bag.
type GlobalAppSettings struct {
	// DefaultProfile names the profile that should be used when no
	// other profile is selected. Accepts either a GUID or a
	// profile name; resolved by the Validator.
	DefaultProfile string
	// DisabledProfileSources is the set of generator/fragment
	// namespaces the user has opted out of; their contributions are
	// skipped entirely by the GeneratorRunner and FragmentLoader.
	DisabledProfileSources map[string]struct{}
	// ColorSchemes maps scheme name to definition.
	ColorSchemes map[string]ColorScheme
	// Actions is the ordered list of key-binding actions.
	Actions []KeyBindingAction

	// parent is the globals this bag inherits from (user-globals ->
	// defaults-globals). Unexported: only resolve.go wires it, mirroring
	// Profile.Parents but singular since globals only ever have one
	// parent slot in this data model.
	parent *GlobalAppSettings
}

// NewGlobalAppSettings returns an empty, ready-to-populate globals bag.
func NewGlobalAppSettings() *GlobalAppSettings {
	return &GlobalAppSettings{
		DisabledProfileSources: make(map[string]struct{}),
		ColorSchemes:           make(map[string]ColorScheme),
	}
}

// IsSourceDisabled reports whether namespace has been opted out of by
// the user, consulting the parent chain exactly once (globals only ever
// have a single parent hop, defaults, so no cycle detection is needed).
func (g *GlobalAppSettings) IsSourceDisabled(namespace string) bool {
	for cur := g; cur != nil; cur = cur.parent {
		if _, ok := cur.DisabledProfileSources[namespace]; ok {
			return true
		}
	}
	return false
}

// resolveColorScheme walks the globals parent chain looking for a scheme
// by name, first-declaration-wins like a Profile's Settings lookup.
func (g *GlobalAppSettings) resolveColorScheme(name string) (ColorScheme, bool) {
	for cur := g; cur != nil; cur = cur.parent {
		if scheme, ok := cur.ColorSchemes[name]; ok {
			return scheme, true
		}
	}
	return ColorScheme{}, false
}
