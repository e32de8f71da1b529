package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
)

// GUID is a 128-bit profile/globals identity, serialized in the
// terminal-emulator-conventional braced form
// "{XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX}".
type GUID struct {
	id uuid.UUID
}

// ZeroGUID is the unset/invalid GUID value.
var ZeroGUID = GUID{}

// IsZero reports whether g is the unset GUID.
func (g GUID) IsZero() bool {
	return g.id == uuid.Nil
}

// String returns the canonical braced form.
func (g GUID) String() string {
	return "{" + g.id.String() + "}"
}

// Equal reports whether two GUIDs are the same identity.
func (g GUID) Equal(other GUID) bool {
	return g.id == other.id
}

// ParseGUID parses a GUID in either braced ("{xxxxxxxx-...}") or bare
// ("xxxxxxxx-...") form. Parsing is case-insensitive, matching the
// terminal-emulator convention of accepting GUIDs copy-pasted from
// various OS tools.
func ParseGUID(s string) (GUID, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "{"), "}")
	id, err := uuid.FromString(trimmed)
	if err != nil {
		return GUID{}, fmt.Errorf("invalid guid %q: %w", s, err)
	}
	return GUID{id: id}, nil
}

// MustParseGUID is a convenience for tests and constant-ish call sites;
// it panics on a malformed literal.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// NewV5GUID synthesizes a deterministic GUID from a namespace GUID and a
// name, per the IdentityAssigner's namespaced UUID-v5 procedure.
// The same (namespace, name) pair always yields the same GUID, which is
// the cornerstone of the re-hide-after-delete behavior.
func NewV5GUID(namespace GUID, name string) GUID {
	return GUID{id: uuid.NewV5(namespace.id, name)}
}

// NewV4GUID mints a fresh random GUID. Per the GUID synthesis design
// note, this must never be used for generated or fragment profiles,
// only as an explicit escape hatch for brand-new user-authored profiles
// that want a non-deterministic identity.
func NewV4GUID() (GUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return GUID{}, err
	}
	return GUID{id: id}, nil
}

// UserNamespace is the fixed, well-known namespace used to derive a
// GUID for a profile that declares a name but no source and no explicit
// GUID (i.e. a hand-authored user profile).
var UserNamespace = GUID{id: uuid.FromStringOrNil("6d21a3e8-1b3b-4f7a-9a4e-4b1a6e9f5c21")}

// MarshalJSON emits the braced form, matching the settings file's wire
// format.
func (g GUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// UnmarshalJSON accepts the braced or bare form.
func (g *GUID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*g = ZeroGUID
		return nil
	}
	parsed, err := ParseGUID(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
