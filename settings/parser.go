package settings

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/plpmyanmar/terminal/base/log"
)

// reservedProfileKeys are the identifying fields lifted out of a
// profile's JSON object before the remainder is flattened into the
// free-form Settings bag.
var reservedProfileKeys = map[string]struct{}{
	"guid":    {},
	"name":    {},
	"hidden":  {},
	"updates": {},
	"source":  {},
}

// ParseSettings turns a JSON document into a ParsedSettings value,
// tagging every profile with origin. It accepts both the legacy
// "profiles": [...] array shape and the modern
// "profiles": {"defaults": {...}, "list": [...]}  object shape,
// sniffing which one is present with gjson rather than a speculative
// unmarshal, so a malformed document reports a precise offset either
// way.
func ParseSettings(data []byte, origin OriginTag) (*ParsedSettings, error) {
	if !json.Valid(data) {
		return nil, mapSyntaxError(data, origin)
	}

	ps := NewParsedSettings()

	root := gjson.ParseBytes(data)

	if defaultProfile := root.Get("defaultProfile"); defaultProfile.Exists() {
		ps.Globals.DefaultProfile = defaultProfile.String()
	}
	if disabled := root.Get("disabledProfileSources"); disabled.IsArray() {
		for _, v := range disabled.Array() {
			ps.Globals.DisabledProfileSources[v.String()] = struct{}{}
		}
	}

	parseColorSchemes(root.Get("schemes"), ps.Globals)
	parseActions(root.Get("actions"), ps.Globals)

	profilesField := root.Get("profiles")
	switch {
	case profilesField.IsArray():
		for _, pj := range profilesField.Array() {
			if err := parseOneProfile(data, pj, origin, ps); err != nil {
				return nil, err
			}
		}
	case profilesField.IsObject():
		if def := profilesField.Get("defaults"); def.Exists() {
			defProfile, err := decodeProfile(data, def, origin)
			if err != nil {
				return nil, err
			}
			// The defaults slot is anonymous: its GUID is explicitly
			// cleared even if present in the JSON.
			defProfile.GUID = ZeroGUID
			defProfile.Origin = OriginProfilesDefaults
			ps.ProfileDefaults = defProfile
		}
		if list := profilesField.Get("list"); list.IsArray() {
			for _, pj := range list.Array() {
				if err := parseOneProfile(data, pj, origin, ps); err != nil {
					return nil, err
				}
			}
		}
	}

	return ps, nil
}

func parseOneProfile(data []byte, pj gjson.Result, origin OriginTag, ps *ParsedSettings) error {
	if !pj.IsObject() {
		return nil
	}
	// Reject malformed empty objects: a profile must declare at least a
	// name or a guid, preventing ghost "Default" profiles. An
	// "updates" overlay is exempt: it intentionally names no identity
	// of its own, only the profile it overlays onto.
	if !pj.Get("name").Exists() && !pj.Get("guid").Exists() && !pj.Get("updates").Exists() {
		return nil
	}

	p, err := decodeProfile(data, pj, origin)
	if err != nil {
		return err
	}
	p.Origin = origin
	if err := ps.Append(p); err != nil {
		log.Warningf("parser: %s", err)
	}
	return nil
}

func decodeProfile(data []byte, pj gjson.Result, origin OriginTag) (*Profile, error) {
	p := NewProfile(origin)

	if guidStr := pj.Get("guid"); guidStr.Exists() && guidStr.String() != "" {
		g, err := ParseGUID(guidStr.String())
		if err != nil {
			line, col := gjsonIndexToLineCol(data, guidStr.Index)
			return nil, &DeserializationError{
				Key: "guid", Expected: "guid", Actual: guidStr.String(),
				Offset: int64(guidStr.Index), Line: line, Column: col, Err: err,
			}
		}
		p.GUID = g
	}
	p.Name = pj.Get("name").String()
	p.Hidden = pj.Get("hidden").Bool()
	p.Source = pj.Get("source").String()
	if updates := pj.Get("updates"); updates.Exists() && updates.String() != "" {
		g, err := ParseGUID(updates.String())
		if err != nil {
			line, col := gjsonIndexToLineCol(data, updates.Index)
			return nil, &DeserializationError{
				Key: "updates", Expected: "guid", Actual: updates.String(),
				Offset: int64(updates.Index), Line: line, Column: col, Err: err,
			}
		}
		p.Updates = &g
	}

	pj.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if _, reserved := reservedProfileKeys[k]; reserved {
			return true
		}
		flattenInto(p.Settings, k, value)
		return true
	})

	return p, nil
}

// flattenInto recursively flattens a nested JSON object into
// slash-joined setting paths, matching the wire schema's nested-object
// convention (e.g. {"appearance":{"cursorShape":"bar"}} becomes the
// setting key "appearance/cursorShape").
func flattenInto(bag map[string]Value[any], prefix string, value gjson.Result) {
	if value.IsObject() {
		value.ForEach(func(key, sub gjson.Result) bool {
			flattenInto(bag, prefix+"/"+key.String(), sub)
			return true
		})
		return
	}
	if value.Type == gjson.Null {
		bag[prefix] = Cleared[any]()
		return
	}
	bag[prefix] = Set[any](value.Value())
}

func parseColorSchemes(schemes gjson.Result, globals *GlobalAppSettings) {
	if !schemes.IsArray() {
		return
	}
	for _, sj := range schemes.Array() {
		scheme := ColorScheme{
			Name:       sj.Get("name").String(),
			Foreground: sj.Get("foreground").String(),
			Background: sj.Get("background").String(),
		}
		if !scheme.Valid() {
			// Invalid scheme objects are skipped silently, never
			// surfaced to the user.
			continue
		}
		globals.ColorSchemes[scheme.Name] = scheme
	}
}

func parseActions(actions gjson.Result, globals *GlobalAppSettings) {
	if !actions.IsArray() {
		return
	}
	for _, aj := range actions.Array() {
		action := KeyBindingAction{
			Keys:    aj.Get("keys").String(),
			Command: aj.Get("command").String(),
			// An iterateOn clause expands the action over a set of
			// targets instead of naming one concrete scheme.
			Iterable: aj.Get("iterateOn").Exists(),
		}
		switch {
		case action.Command == "":
			action.ParseWarning = "action has no command"
		case action.Keys == "":
			action.ParseWarning = "action " + action.Command + " has no key chord"
		}
		if action.Command == "setColorScheme" {
			action.ColorScheme = aj.Get("scheme").String()
		}
		globals.Actions = append(globals.Actions, action)
	}
}

// mapSyntaxError converts a standard library JSON syntax error into a
// DeserializationError carrying human-readable line/column, computed by
// counting line-feeds up to the byte offset.
func mapSyntaxError(data []byte, origin OriginTag) error {
	var probe json.RawMessage
	err := json.Unmarshal(data, &probe)
	if err == nil {
		// json.Valid already told us this was invalid; fall back to a
		// generic offset-less error rather than claim success.
		return &DeserializationError{Err: fmt.Errorf("invalid json for origin %s", origin)}
	}

	var offset int64
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	}

	line, col := offsetToLineCol(data, offset)
	return &DeserializationError{
		Offset: offset,
		Line:   line,
		Column: col,
		Err:    err,
	}
}

func offsetToLineCol(data []byte, offset int64) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	upTo := data[:offset]
	line = bytes.Count(upTo, []byte("\n")) + 1
	if idx := bytes.LastIndexByte(upTo, '\n'); idx >= 0 {
		col = len(upTo) - idx
	} else {
		col = len(upTo) + 1
	}
	return line, col
}

// gjsonIndexToLineCol is a small convenience used when a
// DeserializationError is built directly from a gjson.Result's byte
// Index rather than from a standard library error.
func gjsonIndexToLineCol(data []byte, index int) (line, col int) {
	return offsetToLineCol(data, int64(index))
}
