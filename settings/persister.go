package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/sjson"

	"github.com/plpmyanmar/terminal/base/log"
	"github.com/plpmyanmar/terminal/base/utils"
	"github.com/plpmyanmar/terminal/base/utils/renameio"
)

// Persister serializes the user-visible state back to settings.json
// with a stable field order and 4-space indentation, backing up the
// previous file before every write.
type Persister struct {
	path string
}

// NewPersister returns a persister writing to path.
func NewPersister(path string) *Persister {
	return &Persister{path: path}
}

// Save serializes globals, the profiles.defaults slot, every
// non-Deleted profile, and color schemes, then writes the result
// atomically. If a file already exists at the target path, it is first
// copied to a timestamped "<path>.<unix-nano>.backup" sibling.
func (p *Persister) Save(globals *GlobalAppSettings, profileDefaults *Profile, profiles []*Profile, now time.Time) error {
	if _, err := os.Stat(p.path); err == nil {
		backupPath := p.path + "." + strconv.FormatInt(now.UnixNano(), 10) + ".backup"
		if err := utils.CopyFileAtomic(backupPath, p.path, 0); err != nil {
			log.Warningf("persister: failed to back up %s: %s", p.path, err)
		}
	}

	data, err := p.render(globals, profileDefaults, profiles)
	if err != nil {
		return fmt.Errorf("persister: %w", err)
	}

	if err := renameio.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("persister: writing %s: %w", p.path, err)
	}
	return nil
}

// render builds the serialized document in the stable field order
// globals, profiles.defaults, profiles.list, schemes, via
// sjson.SetBytes so the order is explicit regardless of struct field
// order or map iteration order, then re-indents the result with 4
// spaces.
func (p *Persister) render(globals *GlobalAppSettings, profileDefaults *Profile, profiles []*Profile) ([]byte, error) {
	doc := []byte("{}")
	var err error

	if globals.DefaultProfile != "" {
		if doc, err = sjson.SetBytes(doc, "defaultProfile", globals.DefaultProfile); err != nil {
			return nil, err
		}
	}
	if len(globals.DisabledProfileSources) > 0 {
		sources := make([]string, 0, len(globals.DisabledProfileSources))
		for ns := range globals.DisabledProfileSources {
			sources = append(sources, ns)
		}
		sort.Strings(sources)
		if doc, err = sjson.SetBytes(doc, "disabledProfileSources", sources); err != nil {
			return nil, err
		}
	}

	defaultsBytes, err := renderProfileBody(profileDefaults)
	if err != nil {
		return nil, err
	}
	if doc, err = sjson.SetRawBytes(doc, "profiles.defaults", defaultsBytes); err != nil {
		return nil, err
	}

	if doc, err = sjson.SetRawBytes(doc, "profiles.list", []byte("[]")); err != nil {
		return nil, err
	}
	for _, prof := range profiles {
		if prof.Deleted || !prof.Origin.IsUserVisible() {
			continue
		}
		profBytes, err := renderProfileBody(prof)
		if err != nil {
			return nil, err
		}
		if doc, err = sjson.SetRawBytes(doc, "profiles.list.-1", profBytes); err != nil {
			return nil, err
		}
	}

	if len(globals.ColorSchemes) > 0 {
		schemes := make([]ColorScheme, 0, len(globals.ColorSchemes))
		for _, scheme := range globals.ColorSchemes {
			schemes = append(schemes, scheme)
		}
		sort.Slice(schemes, func(i, j int) bool { return schemes[i].Name < schemes[j].Name })
		if doc, err = sjson.SetBytes(doc, "schemes", schemes); err != nil {
			return nil, err
		}
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, doc, "", "    "); err != nil {
		return nil, err
	}
	return pretty.Bytes(), nil
}

// renderProfileBody builds the JSON object for one profile: its
// identifying fields plus the settings it declares itself (not
// inherited), with slash-joined setting keys (e.g.
// "appearance/cursorShape") reconstituted into nested JSON objects.
func renderProfileBody(prof *Profile) ([]byte, error) {
	doc := []byte("{}")
	var err error

	if prof.Origin != OriginProfilesDefaults {
		if doc, err = sjson.SetBytes(doc, "guid", prof.GUID.String()); err != nil {
			return nil, err
		}
	}
	if prof.Name != "" {
		if doc, err = sjson.SetBytes(doc, "name", prof.Name); err != nil {
			return nil, err
		}
	}
	if prof.Source != "" {
		if doc, err = sjson.SetBytes(doc, "source", prof.Source); err != nil {
			return nil, err
		}
	}
	if prof.Hidden {
		if doc, err = sjson.SetBytes(doc, "hidden", true); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(prof.Settings))
	for key := range prof.Settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		v := prof.Settings[key]
		// Literal dots inside a key are escaped so sjson does not read
		// them as path separators; only the slash-joined nesting from
		// the parser's flattening becomes real object structure again.
		path := strings.ReplaceAll(strings.ReplaceAll(key, ".", `\.`), "/", ".")
		if v.IsCleared() {
			doc, err = sjson.SetBytes(doc, path, nil)
		} else if val, ok := v.Get(); ok {
			doc, err = sjson.SetBytes(doc, path, val)
		} else {
			continue
		}
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}
